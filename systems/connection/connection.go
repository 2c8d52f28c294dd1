package connection

import (
	"context"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/systems/state"
)

// ConnectToLock connects to the discovered lock.
// Existing connection is returned as is.
func (c *coordinator) ConnectToLock(ctx context.Context, device *lock.DiscoveredLock) (*lock.ConnectedLock, error) {
	if nil == device {
		return nil, &ErrUnknownDevice{}
	}

	if !c.IsInitialized() {
		c.logger.Warn("SDK is not initialized, ignoring connect request", common.LogLockIDToken, device.HardwareID)
		return nil, &ErrNotInitialized{}
	}

	var existing *lock.ConnectedLock
	var epoch uint64
	busy := false
	c.state.UpdateIf(func(d *state.Data) bool {
		if nil != d.Connection {
			cp := *d.Connection
			existing = &cp
			return false
		}

		if d.Connecting {
			busy = true
			return false
		}

		d.Connecting = true
		d.ConnectionEpoch++
		epoch = d.ConnectionEpoch
		return false
	})

	if nil != existing {
		c.logger.Debug("Already connected", common.LogLockIDToken, existing.HardwareID)
		return existing, nil
	}

	if busy {
		return nil, &ErrConnectInProgress{}
	}

	c.logger.Info("Connecting to lock", common.LogLockIDToken, device.HardwareID)
	connected, err := c.sdk.Connect(ctx, device, func() {
		c.onUnexpectedDisconnect(epoch)
	})

	if err != nil {
		c.state.UpdateIf(func(d *state.Data) bool {
			d.Connecting = false
			return false
		})
		return nil, c.fail("Failed to connect to lock", "connect failed", err,
			common.LogLockIDToken, device.HardwareID)
	}

	if nil == connected {
		connected = &lock.ConnectedLock{HardwareID: device.HardwareID}
	}

	ctxEvents, cancel := context.WithCancel(context.Background())
	lost := false
	c.state.Update(func(d *state.Data) {
		d.Connecting = false
		if d.ConnectionEpoch != epoch {
			lost = true
			return
		}

		cp := *connected
		d.Connection = &cp
		d.LockState = nil
		if nil != c.eventsCancel {
			c.eventsCancel()
		}
		c.eventsCancel = cancel
	})

	if lost {
		cancel()
		err := &ErrConnectionLost{HardwareID: connected.HardwareID}
		c.logger.Warn("Connection was lost while connecting", common.LogLockIDToken, connected.HardwareID)
		c.state.SetError(err.Error())
		return nil, err
	}

	go c.listen(ctxEvents, epoch)

	c.logger.Info("Connected to lock", common.LogLockIDToken, connected.HardwareID)
	result := *connected
	return &result, nil
}

// DisconnectFromLock disconnects from the connected lock.
// SDK failure is recorded, cleanup always happens.
func (c *coordinator) DisconnectFromLock(ctx context.Context) error {
	var epoch uint64
	var id string
	c.state.View(func(d *state.Data) {
		if nil != d.Connection {
			epoch = d.ConnectionEpoch
			id = d.Connection.HardwareID
		}
	})

	if "" == id {
		return nil
	}

	err := c.sdk.DisconnectFromLock(ctx)
	if err != nil {
		c.fail("Failed to disconnect from lock", "disconnect failed", err, common.LogLockIDToken, id)
	}

	if c.cleanUpConnection(epoch) {
		c.logger.Info("Disconnected from lock", common.LogLockIDToken, id)
	}

	return nil
}

// ConnectedLock returns copy of the current connection.
func (c *coordinator) ConnectedLock() *lock.ConnectedLock {
	var connected *lock.ConnectedLock
	c.state.View(func(d *state.Data) {
		if nil != d.Connection {
			cp := *d.Connection
			connected = &cp
		}
	})

	return connected
}

// LockState returns the latest reported lock state.
func (c *coordinator) LockState() *lock.OperationState {
	var st *lock.OperationState
	c.state.View(func(d *state.Data) {
		if nil != d.LockState {
			cp := *d.LockState
			st = &cp
		}
	})

	return st
}

// UnlockGarage unlocks the connected lock.
func (c *coordinator) UnlockGarage(ctx context.Context) error {
	return c.command(ctx, "unlock", c.sdk.Unlock)
}

// LockGarage locks the connected lock.
func (c *coordinator) LockGarage(ctx context.Context) error {
	return c.command(ctx, "lock", c.sdk.Lock)
}

// Issues lock command. State change arrives from the events stream.
func (c *coordinator) command(ctx context.Context, name string,
	fn func(context.Context, *lock.ConnectedLock) error) error {
	connected := c.ConnectedLock()
	if nil == connected {
		err := &ErrNotConnected{}
		c.logger.Warn("Lock command ignored, not connected", common.LogLockCommandToken, name)
		c.state.SetError(err.Error())
		return err
	}

	err := fn(ctx, connected)
	if err != nil {
		return c.fail("Lock command failed", name+" failed", err,
			common.LogLockIDToken, connected.HardwareID, common.LogLockCommandToken, name)
	}

	c.logger.Info("Lock command sent", common.LogLockIDToken, connected.HardwareID,
		common.LogLockCommandToken, name)
	return nil
}

// Invoked by SDK from any goroutine.
func (c *coordinator) onUnexpectedDisconnect(epoch uint64) {
	if c.cleanUpConnection(epoch) {
		c.logger.Warn("Lock disconnected unexpectedly")
	}
}

// Clears connection, lock state and events listener.
// Runs at most once per connection epoch.
func (c *coordinator) cleanUpConnection(epoch uint64) bool {
	return c.state.UpdateIf(func(d *state.Data) bool {
		if d.ConnectionEpoch != epoch {
			return false
		}

		d.ConnectionEpoch++
		d.Connection = nil
		d.LockState = nil
		if nil != c.eventsCancel {
			c.eventsCancel()
			c.eventsCancel = nil
		}

		return true
	})
}
