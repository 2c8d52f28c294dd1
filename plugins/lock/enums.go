package lock

import (
	"fmt"
	"strings"
)

// OperationState describes enum with known lock operation states.
type OperationState int

const (
	// OpUnknown describes unknown lock state.
	OpUnknown OperationState = iota
	// OpLocked describes locked state.
	OpLocked
	// OpUnlocked describes unlocked state.
	OpUnlocked
	// OpLocking describes lock in progress.
	OpLocking
	// OpUnlocking describes unlock in progress.
	OpUnlocking
	// OpJammed describes jammed lock.
	OpJammed
)

var operationStateNames = map[OperationState]string{
	OpUnknown:   "unknown",
	OpLocked:    "locked",
	OpUnlocked:  "unlocked",
	OpLocking:   "locking",
	OpUnlocking: "unlocking",
	OpJammed:    "jammed",
}

// String returns kebab-case name of the state.
func (i OperationState) String() string {
	if s, ok := operationStateNames[i]; ok {
		return s
	}

	return fmt.Sprintf("OperationState(%d)", int(i))
}

// MarshalText implements encoding.TextMarshaler.
func (i OperationState) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *OperationState) UnmarshalText(text []byte) error {
	v, err := OperationStateString(string(text))
	if err != nil {
		return err
	}

	*i = v
	return nil
}

// OperationStateString converts string into the operation state.
func OperationStateString(s string) (OperationState, error) {
	s = strings.ToLower(s)
	for k, v := range operationStateNames {
		if v == s {
			return k, nil
		}
	}

	return OpUnknown, fmt.Errorf("%s does not belong to OperationState values", s)
}

// DisplayText returns human readable state.
func (i OperationState) DisplayText() string {
	switch i {
	case OpLocked:
		return "Locked"
	case OpUnlocked:
		return "Unlocked"
	case OpLocking:
		return "Locking..."
	case OpUnlocking:
		return "Unlocking..."
	case OpJammed:
		return "Jammed!"
	default:
		return "Unknown"
	}
}

// ActivationStatus describes operating device activation status.
// SDK might return values outside of the known set.
type ActivationStatus int

const (
	// ActivationInactive describes not activated device.
	ActivationInactive ActivationStatus = iota
	// ActivationActivating describes activation in progress.
	ActivationActivating
	// ActivationActive describes activated device.
	ActivationActive
)

// String returns kebab-case name of the status.
func (i ActivationStatus) String() string {
	switch i {
	case ActivationInactive:
		return "inactive"
	case ActivationActivating:
		return "activating"
	case ActivationActive:
		return "active"
	default:
		return fmt.Sprintf("ActivationStatus(%d)", int(i))
	}
}

// ActivationStatusString converts string into the activation status.
func ActivationStatusString(s string) (ActivationStatus, error) {
	switch strings.ToLower(s) {
	case "inactive":
		return ActivationInactive, nil
	case "activating":
		return ActivationActivating, nil
	case "active":
		return ActivationActive, nil
	}

	return ActivationInactive, fmt.Errorf("%s does not belong to ActivationStatus values", s)
}

// DiscoveryEventType describes discovery stream event type.
type DiscoveryEventType int

const (
	// DiscoveryDiscovered describes a new or updated lock.
	DiscoveryDiscovered DiscoveryEventType = iota
	// DiscoveryDisappeared describes lock which went out of range.
	DiscoveryDisappeared
)

// String returns kebab-case name of the event type.
func (i DiscoveryEventType) String() string {
	switch i {
	case DiscoveryDiscovered:
		return "discovered"
	case DiscoveryDisappeared:
		return "disappeared"
	default:
		return fmt.Sprintf("DiscoveryEventType(%d)", int(i))
	}
}

// StateKind describes which part of the lock state has changed.
type StateKind int

const (
	// KindOperation describes operation state change.
	KindOperation StateKind = iota
	// KindOverride describes override state change.
	KindOverride
	// KindError describes error state change.
	KindError
)

// String returns kebab-case name of the kind.
func (i StateKind) String() string {
	switch i {
	case KindOperation:
		return "operation"
	case KindOverride:
		return "override"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("StateKind(%d)", int(i))
	}
}
