package server

import "fmt"

// ErrUnknownCommand defines unknown command error.
type ErrUnknownCommand struct {
	Name string
}

// Error formats output.
func (e *ErrUnknownCommand) Error() string {
	return fmt.Sprintf("command %s is unknown", e.Name)
}

// ErrUnknownLock defines lock which is not discovered.
type ErrUnknownLock struct {
	ID string
}

// Error formats output.
func (e *ErrUnknownLock) Error() string {
	return fmt.Sprintf("lock %s is not in range", e.ID)
}

// ErrBadRequest defines generic server error.
type ErrBadRequest struct {
}

// Error formats output.
func (e *ErrBadRequest) Error() string {
	return "bad request"
}

// ErrForbidden defines operation not allowed for the user.
type ErrForbidden struct {
}

// Error formats output.
func (e *ErrForbidden) Error() string {
	return "forbidden"
}
