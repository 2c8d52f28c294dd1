// Package lock contains definitions of the vendor lock SDK consumed by go-home garage.
package lock

import (
	"context"
	"strings"
)

// ISDK defines vendor lock SDK surface.
// All Bluetooth communication, pairing and activation happens inside
// the SDK, go-home garage only orchestrates calls.
type ISDK interface {
	Initialize(ctx context.Context) error

	ActivateOperatingDevice(ctx context.Context, code *InvitationCode) error
	DeactivateOperatingDevice(ctx context.Context) error
	GetOperatingDeviceActivationStatus(ctx context.Context) (ActivationStatus, error)

	FetchAccesses(ctx context.Context) (*AccessesResult, error)

	// StartLockDiscovery returns discovery stream.
	// Channel is closed when stream ends, failures are delivered as events with Err set.
	StartLockDiscovery(ctx context.Context) <-chan *DiscoveryEvent
	StopLockDiscovery()

	// Connect establishes connection to the lock.
	// onUnexpectedDisconnect could be invoked from any goroutine.
	Connect(ctx context.Context, device *DiscoveredLock, onUnexpectedDisconnect func()) (*ConnectedLock, error)
	DisconnectFromLock(ctx context.Context) error

	Lock(ctx context.Context, connected *ConnectedLock) error
	Unlock(ctx context.Context, connected *ConnectedLock) error

	// GetLockEvents returns lock state changes stream for the connected lock.
	GetLockEvents(ctx context.Context) <-chan *Event

	FetchClaimableLocks(ctx context.Context, page int, size int) ([]*ClaimableLock, error)
	Claim(ctx context.Context, connected *ConnectedLock, claimable *ClaimableLock) error
}

// DiscoveredLock describes a lock found nearby.
type DiscoveredLock struct {
	HardwareID string `json:"hardware_id"`
	Name       string `json:"name,omitempty"`
	IsClaimed  bool   `json:"is_claimed"`
}

// DisplayName returns lock name or a placeholder if the lock didn't advertise one.
func (d *DiscoveredLock) DisplayName() string {
	if "" == d.Name {
		return "Unnamed Lock"
	}

	return d.Name
}

// ConnectedLock describes an active physical connection.
type ConnectedLock struct {
	HardwareID string `json:"hardware_id"`
}

// Access describes user's authorization to a physical lock.
type Access struct {
	LockID string `json:"lock_id" yaml:"lockId"`
	Title  string `json:"title" yaml:"title"`
}

// AccessesResult has data returned by accesses fetch.
type AccessesResult struct {
	Accesses []*Access
}

// ClaimableLock describes server-side placeholder used for claiming a new lock.
type ClaimableLock struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// DiscoveryEvent describes a single discovery stream event.
type DiscoveryEvent struct {
	Type DiscoveryEventType
	Lock *DiscoveredLock
	Err  error
}

// StateChange describes new lock state.
// Only the field matching Kind is populated.
type StateChange struct {
	Kind      StateKind
	Operation OperationState
	Override  string
	Error     string
}

// Event describes a single lock events stream item.
type Event struct {
	NewState StateChange
}

// InvitationCode has validated activation code.
type InvitationCode struct {
	code string
}

// NewInvitationCode validates raw invitation code.
func NewInvitationCode(code string) (*InvitationCode, error) {
	code = strings.TrimSpace(code)
	if "" == code || strings.ContainsAny(code, " \t\n") {
		return nil, &ErrInvalidInvitationCode{}
	}

	return &InvitationCode{code: code}, nil
}

// Code returns raw code.
func (i *InvitationCode) Code() string {
	return i.code
}

// ErrInvalidInvitationCode defines malformed invitation code error.
type ErrInvalidInvitationCode struct {
}

// Error formats output.
func (*ErrInvalidInvitationCode) Error() string {
	return "invitation code is malformed"
}
