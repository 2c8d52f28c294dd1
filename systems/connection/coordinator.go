// Package connection contains lock discovery and connection coordinator.
package connection

import (
	"context"
	"sync"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/logger"
	"github.com/go-home-io/garage/systems/state"
	"github.com/pkg/errors"
)

const (
	logSystem = "connection"
)

// Implements connection coordinator.
// Fields below state are accessed only inside state updates.
type coordinator struct {
	sdk    lock.ISDK
	state  *state.Session
	logger common.ILoggerProvider

	scanCancel   context.CancelFunc
	eventsCancel context.CancelFunc
	hooks        []func(d *state.Data)

	// Serializes opening and stopping of the SDK discovery stream.
	streamMutex sync.Mutex
}

// ConstructCoordinator has data required for a new connection coordinator.
type ConstructCoordinator struct {
	SDK    lock.ISDK
	State  *state.Session
	Logger common.ILoggerProvider
}

// NewCoordinator creates a new connection coordinator.
func NewCoordinator(ctor *ConstructCoordinator) providers.IConnectionProvider {
	return &coordinator{
		sdk:    ctor.SDK,
		state:  ctor.State,
		logger: logger.NewSystemLogger(&logger.ConstructSystemLogger{
			Logger: ctor.Logger,
			System: logSystem,
		}),
		hooks:  make([]func(d *state.Data), 0),
	}
}

// InitializeSDK initializes vendor SDK.
func (c *coordinator) InitializeSDK(ctx context.Context) error {
	if c.IsInitialized() {
		return nil
	}

	err := c.sdk.Initialize(ctx)
	if err != nil {
		return c.fail("Failed to initialize SDK", "initialize failed", err)
	}

	c.state.Update(func(d *state.Data) {
		d.Initialized = true
	})

	c.logger.Info("SDK initialized")
	return nil
}

// IsInitialized returns whether SDK was initialized.
func (c *coordinator) IsInitialized() bool {
	initialized := false
	c.state.View(func(d *state.Data) {
		initialized = d.Initialized
	})

	return initialized
}

// ActivateDevice activates current device with the invitation code.
func (c *coordinator) ActivateDevice(ctx context.Context, invitationCode string) error {
	code, err := lock.NewInvitationCode(invitationCode)
	if err != nil {
		return c.fail("Invalid invitation code", "activation failed", err)
	}

	err = c.sdk.ActivateOperatingDevice(ctx, code)
	if err != nil {
		return c.fail("Failed to activate device", "activation failed", err)
	}

	c.logger.Info("Device activated")
	return nil
}

// DeactivateDevice deactivates current device.
func (c *coordinator) DeactivateDevice(ctx context.Context) error {
	err := c.sdk.DeactivateOperatingDevice(ctx)
	if err != nil {
		return c.fail("Failed to deactivate device", "deactivation failed", err)
	}

	c.logger.Info("Device deactivated")
	return nil
}

// ActivationStatus queries current device activation status.
func (c *coordinator) ActivationStatus(ctx context.Context) (lock.ActivationStatus, error) {
	status, err := c.sdk.GetOperatingDeviceActivationStatus(ctx)
	if err != nil {
		return lock.ActivationInactive, c.fail("Failed to get activation status", "status query failed", err)
	}

	return status, nil
}

// FetchUserAccesses returns accesses of the activated user.
func (c *coordinator) FetchUserAccesses(ctx context.Context) ([]*lock.Access, error) {
	result, err := c.sdk.FetchAccesses(ctx)
	if err != nil {
		return nil, c.fail("Failed to fetch accesses", "accesses fetch failed", err)
	}

	if nil == result || nil == result.Accesses {
		return make([]*lock.Access, 0), nil
	}

	return result.Accesses, nil
}

// FetchClaimableLocks returns page of claimable placeholders.
func (c *coordinator) FetchClaimableLocks(ctx context.Context, page int, size int) ([]*lock.ClaimableLock, error) {
	locks, err := c.sdk.FetchClaimableLocks(ctx, page, size)
	if err != nil {
		return nil, c.fail("Failed to fetch claimable locks", "claimable locks fetch failed", err)
	}

	if nil == locks {
		return make([]*lock.ClaimableLock, 0), nil
	}

	return locks, nil
}

// Claim binds connected lock with the placeholder.
func (c *coordinator) Claim(ctx context.Context, connected *lock.ConnectedLock, claimable *lock.ClaimableLock) error {
	err := c.sdk.Claim(ctx, connected, claimable)
	if err != nil {
		return c.fail("Failed to claim lock", "claim failed", err, common.LogLockIDToken, connected.HardwareID)
	}

	c.logger.Info("Lock claimed", common.LogLockIDToken, connected.HardwareID,
		common.LogLockNameToken, claimable.Name)
	return nil
}

// Logs failure and records it as the latest error.
// Cancellation is returned, but never recorded.
func (c *coordinator) fail(msg string, wrap string, err error, fields ...string) error {
	if isCancelled(err) {
		return errors.Wrap(err, wrap)
	}

	c.logger.Error(msg, err, fields...)
	c.state.SetError(msg + ": " + err.Error())
	return errors.Wrap(err, wrap)
}

// Checks whether error was caused by context cancellation.
func isCancelled(err error) bool {
	cause := errors.Cause(err)
	return cause == context.Canceled
}
