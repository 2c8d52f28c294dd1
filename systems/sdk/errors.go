package sdk

import "fmt"

// ErrNotInitialized defines call before SDK initialization.
type ErrNotInitialized struct {
}

// Error formats output.
func (*ErrNotInitialized) Error() string {
	return "sdk is not initialized"
}

// ErrNotActivated defines server call on inactive device.
type ErrNotActivated struct {
}

// Error formats output.
func (*ErrNotActivated) Error() string {
	return "operating device is not activated"
}

// ErrInvalidCode defines rejected invitation code.
type ErrInvalidCode struct {
}

// Error formats output.
func (*ErrInvalidCode) Error() string {
	return "invitation code is not valid"
}

// ErrUnknownLock defines unknown hardware lock.
type ErrUnknownLock struct {
	HardwareID string
}

// Error formats output.
func (e *ErrUnknownLock) Error() string {
	return fmt.Sprintf("lock %s is out of range", e.HardwareID)
}

// ErrNotConnected defines command sent without connection.
type ErrNotConnected struct {
	HardwareID string
}

// Error formats output.
func (e *ErrNotConnected) Error() string {
	return fmt.Sprintf("lock %s is not connected", e.HardwareID)
}

// ErrUnknownClaimable defines unknown claimable placeholder.
type ErrUnknownClaimable struct {
	ID string
}

// Error formats output.
func (e *ErrUnknownClaimable) Error() string {
	return fmt.Sprintf("claimable lock %s not found", e.ID)
}

// ErrAlreadyClaimed defines claim of a claimed lock.
type ErrAlreadyClaimed struct {
	HardwareID string
}

// Error formats output.
func (e *ErrAlreadyClaimed) Error() string {
	return fmt.Sprintf("lock %s is already claimed", e.HardwareID)
}
