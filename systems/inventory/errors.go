package inventory

// ErrNoClaimableLocks defines missing server-side placeholders.
type ErrNoClaimableLocks struct {
}

// Error formats output.
func (*ErrNoClaimableLocks) Error() string {
	return "no claimable locks found on server, please create one first"
}

// ErrClaimConnect defines failed connection to the claimed lock.
type ErrClaimConnect struct {
}

// Error formats output.
func (*ErrClaimConnect) Error() string {
	return "could not connect to the physical lock to claim it"
}

// ErrUnknownGarage defines garage missing in the inventory.
type ErrUnknownGarage struct {
	ID string
}

// Error formats output.
func (e *ErrUnknownGarage) Error() string {
	return "unknown garage " + e.ID
}

// ErrGarageOffline defines garage which lock is not in range.
type ErrGarageOffline struct {
	ID string
}

// Error formats output.
func (e *ErrGarageOffline) Error() string {
	return "garage " + e.ID + " is not in range"
}

// ErrConnectedElsewhere defines active connection to another lock.
type ErrConnectedElsewhere struct {
	HardwareID string
}

// Error formats output.
func (e *ErrConnectedElsewhere) Error() string {
	return "already connected to another lock " + e.HardwareID
}

// ErrGarageBusy defines garage with in-flight operation.
type ErrGarageBusy struct {
	ID string
}

// Error formats output.
func (e *ErrGarageBusy) Error() string {
	return "garage " + e.ID + " is busy"
}

// ErrUnknownDevice defines missing device.
type ErrUnknownDevice struct {
}

// Error formats output.
func (*ErrUnknownDevice) Error() string {
	return "device is not specified"
}
