// Package session contains activation and session controller.
package session

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/logger"
	"github.com/go-home-io/garage/systems/state"
)

const (
	logSystem = "session"

	defaultAttempts = 5
	defaultDelay    = time.Second
)

// Implements activation and session controller.
type controller struct {
	sync.Mutex
	startup sync.Once

	connection providers.IConnectionProvider
	inventory  providers.IInventoryProvider
	state      *state.Session
	logger     common.ILoggerProvider

	attempts int
	delay    time.Duration
	autoScan bool
}

// ConstructController has data required for a new session controller.
type ConstructController struct {
	Connection providers.IConnectionProvider
	Inventory  providers.IInventoryProvider
	State      *state.Session
	Logger     common.ILoggerProvider
	Settings   *providers.AppSettings
}

// NewController creates a new session controller.
func NewController(ctor *ConstructController) providers.ISessionProvider {
	c := &controller{
		connection: ctor.Connection,
		inventory:  ctor.Inventory,
		state:      ctor.State,
		logger: logger.NewSystemLogger(&logger.ConstructSystemLogger{
			Logger: ctor.Logger,
			System: logSystem,
		}),
		attempts: defaultAttempts,
		delay:    defaultDelay,
		autoScan: true,
	}

	if nil != ctor.Settings {
		if ctor.Settings.StatusAttempts > 0 {
			c.attempts = ctor.Settings.StatusAttempts
		}
		c.delay = ctor.Settings.StatusRetryDelay
		c.autoScan = !ctor.Settings.ManualScan
	}

	return c
}

// CheckInitialState runs startup protocol.
// Protocol is executed only once.
func (c *controller) CheckInitialState(ctx context.Context) {
	c.startup.Do(func() {
		c.Lock()
		defer c.Unlock()

		c.checkInitialState(ctx)
	})
}

// Login activates device with the invitation code.
func (c *controller) Login(ctx context.Context, invitationCode string) error {
	c.Lock()
	defer c.Unlock()

	if "" == strings.TrimSpace(invitationCode) {
		err := &ErrEmptyInvitationCode{}
		c.state.SetError(err.Error())
		return err
	}

	current := c.state.AppState()
	if state.AppNeedsActivation != current {
		err := &ErrInvalidTransition{State: current}
		c.logger.Warn("Login is not allowed", common.LogAppStateToken, current.String())
		return err
	}

	err := c.connection.InitializeSDK(ctx)
	if err != nil {
		return err
	}

	err = c.connection.ActivateDevice(ctx, invitationCode)
	if err != nil {
		return err
	}

	status, err := c.connection.ActivationStatus(ctx)
	if err != nil {
		return err
	}

	if lock.ActivationActive != status {
		err := &ErrNotActive{Status: status}
		c.logger.Warn("Device is not active after activation", common.LogFieldToken, status.String())
		c.state.SetError(err.Error())
		return err
	}

	c.logger.Info("Login successful")
	c.activate(ctx)
	return nil
}

// Logout disconnects, deactivates device and clears garages.
// Application always ends in needs-activation state.
func (c *controller) Logout(ctx context.Context) {
	c.Lock()
	defer c.Unlock()

	c.inventory.StopRefresh()
	c.connection.DisconnectFromLock(ctx)
	c.connection.StopScanning()

	err := c.connection.DeactivateDevice(ctx)
	if err != nil {
		c.logger.Warn("Logout completed, but deactivation failed")
	} else {
		c.logger.Info("Logout successful, device deactivated")
	}

	c.inventory.Clear()
	c.setAppState(state.AppNeedsActivation)
}

// AppState returns current application state.
func (c *controller) AppState() state.AppState {
	return c.state.AppState()
}

// Initializes SDK and polls activation status.
// Only failed queries are retried.
func (c *controller) checkInitialState(ctx context.Context) {
	err := c.connection.InitializeSDK(ctx)
	if err != nil {
		c.logger.Warn("SDK initialization failed, activation is required")
		c.setAppState(state.AppNeedsActivation)
		return
	}

	for attempt := 1; attempt <= c.attempts; attempt++ {
		status, err := c.connection.ActivationStatus(ctx)
		if nil == err {
			if lock.ActivationActive == status {
				c.logger.Info("Device is active")
				c.activate(ctx)
				return
			}

			c.logger.Info("Device is not active", common.LogFieldToken, status.String())
			c.setAppState(state.AppNeedsActivation)
			return
		}

		c.logger.Warn("Activation status check failed", common.LogAttemptToken, strconv.Itoa(attempt))
		if attempt == c.attempts {
			break
		}

		select {
		case <-ctx.Done():
			c.logger.Warn("Activation status check cancelled")
			c.setAppState(state.AppNeedsActivation)
			return
		case <-time.After(c.delay):
		}
	}

	c.logger.Warn("Activation status unavailable, activation is required",
		common.LogAttemptToken, strconv.Itoa(c.attempts))
	c.setAppState(state.AppNeedsActivation)
}

// Loads garages and enters active state.
func (c *controller) activate(ctx context.Context) {
	err := c.inventory.LoadGaragesAfterActivation(ctx)
	if err != nil {
		c.logger.Error("Failed to load garages after activation", err)
	}

	c.setAppState(state.AppActive)
	c.inventory.StartRefresh()

	if c.autoScan {
		c.connection.StartScanning()
	}
}

// Sets application state.
func (c *controller) setAppState(st state.AppState) {
	c.state.Update(func(d *state.Data) {
		d.AppState = st
	})

	c.logger.Info("Application state changed", common.LogAppStateToken, st.String())
}
