package session

import (
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/systems/state"
)

// ErrEmptyInvitationCode defines missing invitation code.
type ErrEmptyInvitationCode struct {
}

// Error formats output.
func (*ErrEmptyInvitationCode) Error() string {
	return "invitation code is empty"
}

// ErrNotActive defines device which is not active after activation.
type ErrNotActive struct {
	Status lock.ActivationStatus
}

// Error formats output.
func (e *ErrNotActive) Error() string {
	return "device is not active after activation: " + e.Status.String()
}

// ErrInvalidTransition defines login in a wrong application state.
type ErrInvalidTransition struct {
	State state.AppState
}

// Error formats output.
func (e *ErrInvalidTransition) Error() string {
	return "login is not allowed in " + e.State.String() + " state"
}
