package connection

import (
	"context"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/systems/state"
)

// StartScanning starts discovery listener.
// Running scan is stopped first.
func (c *coordinator) StartScanning() {
	if !c.IsInitialized() {
		c.logger.Warn("SDK is not initialized, ignoring scan request")
		return
	}

	c.StopScanning()

	ctx, cancel := context.WithCancel(context.Background())
	var epoch uint64
	c.state.Update(func(d *state.Data) {
		if nil != c.scanCancel {
			c.scanCancel()
		}

		d.ScanEpoch++
		d.Scanning = true
		epoch = d.ScanEpoch
		c.scanCancel = cancel
	})

	c.logger.Info("Started scanning for locks")
	go c.scan(ctx, epoch)
}

// StopScanning stops discovery listener.
func (c *coordinator) StopScanning() {
	var cancel context.CancelFunc
	stopped := c.state.UpdateIf(func(d *state.Data) bool {
		if !d.Scanning {
			return false
		}

		d.Scanning = false
		d.ScanEpoch++
		cancel = c.scanCancel
		c.scanCancel = nil
		return true
	})

	if !stopped {
		return
	}

	c.streamMutex.Lock()
	if nil != cancel {
		cancel()
	}
	c.sdk.StopLockDiscovery()
	c.streamMutex.Unlock()

	c.logger.Info("Stopped scanning for locks")
}

// IsScanning returns whether discovery listener is active.
func (c *coordinator) IsScanning() bool {
	scanning := false
	c.state.View(func(d *state.Data) {
		scanning = d.Scanning
	})

	return scanning
}

// DiscoveredLocks returns copy of discovered locks.
func (c *coordinator) DiscoveredLocks() []*lock.DiscoveredLock {
	var locks []*lock.DiscoveredLock
	c.state.View(func(d *state.Data) {
		locks = state.CopyLocks(d.Discovered)
	})

	return locks
}

// OnDiscoveryChanged registers hook invoked on every discovered set change.
// Hook is invoked inside state update and must not call coordinator.
func (c *coordinator) OnDiscoveryChanged(hook func(d *state.Data)) {
	c.state.UpdateIf(func(d *state.Data) bool {
		c.hooks = append(c.hooks, hook)
		return false
	})
}

// Discovery listener.
// Accesses are refreshed before the stream is opened.
func (c *coordinator) scan(ctx context.Context, epoch uint64) {
	_, err := c.sdk.FetchAccesses(ctx)
	if err != nil {
		c.scanFailed(epoch, "Failed to refresh accesses before scanning", err)
		return
	}

	stream := c.openStream(ctx)
	if nil == stream {
		c.logger.Debug("Scan was cancelled before discovery started")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-stream:
			if !ok {
				c.scanEnded(epoch)
				return
			}

			if nil == event {
				continue
			}

			if nil != event.Err {
				c.scanFailed(epoch, "Discovery stream failed", event.Err)
				return
			}

			c.applyDiscovery(epoch, event)
		}
	}
}

// Opens SDK discovery stream unless the scan was already cancelled.
// Cancelled scan must never replace the stream of its successor.
func (c *coordinator) openStream(ctx context.Context) <-chan *lock.DiscoveryEvent {
	c.streamMutex.Lock()
	defer c.streamMutex.Unlock()

	if nil != ctx.Err() {
		return nil
	}

	return c.sdk.StartLockDiscovery(ctx)
}

// Applies discovery event to the discovered set.
func (c *coordinator) applyDiscovery(epoch uint64, event *lock.DiscoveryEvent) {
	if nil == event.Lock {
		return
	}

	device := *event.Lock
	c.state.UpdateIf(func(d *state.Data) bool {
		if d.ScanEpoch != epoch || !d.Scanning {
			return false
		}

		switch event.Type {
		case lock.DiscoveryDiscovered:
			d.Discovered = upsertLock(d.Discovered, &device)
		case lock.DiscoveryDisappeared:
			d.Discovered = removeLock(d.Discovered, device.HardwareID)
		default:
			return false
		}

		for _, v := range c.hooks {
			v(d)
		}

		return true
	})

	c.logger.Debug("Discovery event", common.LogLockIDToken, device.HardwareID,
		common.LogNameToken, event.Type.String())
}

// Clears scanning flag after stream failure.
func (c *coordinator) scanFailed(epoch uint64, msg string, err error) {
	if isCancelled(err) {
		return
	}

	current := c.state.UpdateIf(func(d *state.Data) bool {
		if d.ScanEpoch != epoch {
			return false
		}

		c.finishScan(d)
		d.LastError = msg + ": " + err.Error()
		return true
	})

	if current {
		c.logger.Error(msg, err)
	}
}

// Clears scanning flag after stream end.
func (c *coordinator) scanEnded(epoch uint64) {
	current := c.state.UpdateIf(func(d *state.Data) bool {
		if d.ScanEpoch != epoch {
			return false
		}

		c.finishScan(d)
		return true
	})

	if current {
		c.logger.Info("Discovery stream ended")
	}
}

// Must be called inside state update.
func (c *coordinator) finishScan(d *state.Data) {
	d.Scanning = false
	d.ScanEpoch++
	if nil != c.scanCancel {
		c.scanCancel()
		c.scanCancel = nil
	}
}

// Replaces lock with the same hardware ID or appends a new one.
func upsertLock(locks []*lock.DiscoveredLock, device *lock.DiscoveredLock) []*lock.DiscoveredLock {
	for ii, v := range locks {
		if v.HardwareID == device.HardwareID {
			locks[ii] = device
			return locks
		}
	}

	return append(locks, device)
}

// Removes every lock with the hardware ID.
func removeLock(locks []*lock.DiscoveredLock, hardwareID string) []*lock.DiscoveredLock {
	result := make([]*lock.DiscoveredLock, 0, len(locks))
	for _, v := range locks {
		if v.HardwareID != hardwareID {
			result = append(result, v)
		}
	}

	return result
}
