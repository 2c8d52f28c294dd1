package connection

// ErrNotInitialized defines SDK that wasn't initialized yet.
type ErrNotInitialized struct {
}

// Error formats output.
func (*ErrNotInitialized) Error() string {
	return "SDK is not initialized"
}

// ErrNotConnected defines missing lock connection.
type ErrNotConnected struct {
}

// Error formats output.
func (*ErrNotConnected) Error() string {
	return "not connected to any lock"
}

// ErrConnectInProgress defines concurrent connection attempt.
type ErrConnectInProgress struct {
}

// Error formats output.
func (*ErrConnectInProgress) Error() string {
	return "another connection attempt is in progress"
}

// ErrConnectionLost defines connection dropped before connect returned.
type ErrConnectionLost struct {
	HardwareID string
}

// Error formats output.
func (e *ErrConnectionLost) Error() string {
	return "connection to " + e.HardwareID + " was lost while connecting"
}

// ErrUnknownDevice defines empty device passed to connect.
type ErrUnknownDevice struct {
}

// Error formats output.
func (*ErrUnknownDevice) Error() string {
	return "device is not specified"
}
