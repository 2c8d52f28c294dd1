package providers

import (
	"context"

	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/systems/state"
)

// IConnectionProvider defines lock discovery and connection coordinator.
type IConnectionProvider interface {
	InitializeSDK(ctx context.Context) error
	IsInitialized() bool

	ActivateDevice(ctx context.Context, invitationCode string) error
	DeactivateDevice(ctx context.Context) error
	ActivationStatus(ctx context.Context) (lock.ActivationStatus, error)

	StartScanning()
	StopScanning()
	IsScanning() bool
	DiscoveredLocks() []*lock.DiscoveredLock
	OnDiscoveryChanged(func(d *state.Data))

	ConnectToLock(ctx context.Context, device *lock.DiscoveredLock) (*lock.ConnectedLock, error)
	DisconnectFromLock(ctx context.Context) error
	ConnectedLock() *lock.ConnectedLock
	LockState() *lock.OperationState
	UnlockGarage(ctx context.Context) error
	LockGarage(ctx context.Context) error

	FetchUserAccesses(ctx context.Context) ([]*lock.Access, error)
	FetchClaimableLocks(ctx context.Context, page int, size int) ([]*lock.ClaimableLock, error)
	Claim(ctx context.Context, connected *lock.ConnectedLock, claimable *lock.ClaimableLock) error
}

// IInventoryProvider defines garage inventory projector.
type IInventoryProvider interface {
	LoadGaragesAfterActivation(ctx context.Context) error
	UpdateGarageStatuses(discovered []*lock.DiscoveredLock)
	ClaimDevice(ctx context.Context, device *lock.DiscoveredLock) error
	OperateGarage(ctx context.Context, id string) error
	ConnectGarage(ctx context.Context, id string) error
	DisconnectGarage(ctx context.Context, id string) error
	UnclaimedLocks() []*lock.DiscoveredLock
	Garages() []*state.GarageDoor
	Garage(id string) (*state.GarageDoor, error)
	Status(id string) (*GarageStatus, error)
	Clear()
	StartRefresh()
	StopRefresh()
}

// ISessionProvider defines activation and session controller.
type ISessionProvider interface {
	CheckInitialState(ctx context.Context)
	Login(ctx context.Context, invitationCode string) error
	Logout(ctx context.Context)
	AppState() state.AppState
}

// GarageConnection describes garage connection status.
type GarageConnection string

const (
	// GarageConnected describes garage with an active connection.
	GarageConnected GarageConnection = "connected"
	// GarageInRange describes discovered, but not connected garage.
	GarageInRange GarageConnection = "in-range"
	// GarageOffline describes garage which lock is not in range.
	GarageOffline GarageConnection = "offline"
)

// GarageStatus has data describing garage's current state.
type GarageStatus struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Connection GarageConnection `json:"connection"`
	State      string           `json:"state"`
	IsOpen     bool             `json:"is_open"`
	IsFake     bool             `json:"is_fake"`
	Busy       bool             `json:"busy"`
}
