package connection

import (
	"context"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/systems/state"
)

// Lock events listener.
func (c *coordinator) listen(ctx context.Context, epoch uint64) {
	stream := c.sdk.GetLockEvents(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-stream:
			if !ok {
				c.logger.Debug("Lock events stream ended")
				return
			}

			if nil == event {
				continue
			}

			c.applyEvent(epoch, event)
		}
	}
}

// Applies lock event. Events of a stale connection are dropped.
func (c *coordinator) applyEvent(epoch uint64, event *lock.Event) {
	change := event.NewState
	switch change.Kind {
	case lock.KindOperation:
		op := change.Operation
		if c.state.UpdateIf(func(d *state.Data) bool {
			if d.ConnectionEpoch != epoch || nil == d.Connection {
				return false
			}

			d.LockState = &op
			return true
		}) {
			c.logger.Info("Lock state changed", common.LogLockStateToken, op.String())
		}
	case lock.KindOverride:
		c.logger.Info("Lock override state received", common.LogLockStateToken, change.Override)
	case lock.KindError:
		if c.state.UpdateIf(func(d *state.Data) bool {
			if d.ConnectionEpoch != epoch {
				return false
			}

			d.LastError = "Lock error: " + change.Error
			return true
		}) {
			c.logger.Warn("Lock reported error", common.LogErrorToken, change.Error)
		}
	}
}
