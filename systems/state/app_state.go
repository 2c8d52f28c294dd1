package state

import "fmt"

// AppState describes global session state.
type AppState int

const (
	// AppLoading describes initial state while SDK is being initialized.
	AppLoading AppState = iota
	// AppNeedsActivation describes state where invitation code is required.
	AppNeedsActivation
	// AppActive describes activated session.
	AppActive
)

// String returns kebab-case name of the state.
func (i AppState) String() string {
	switch i {
	case AppLoading:
		return "loading"
	case AppNeedsActivation:
		return "needs-activation"
	case AppActive:
		return "active"
	default:
		return fmt.Sprintf("AppState(%d)", int(i))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (i AppState) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}
