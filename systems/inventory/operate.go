package inventory

import (
	"context"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/systems/state"
)

// ClaimDevice binds unclaimed lock with the first server-side placeholder.
// Once connected, lock is always disconnected.
func (p *projector) ClaimDevice(ctx context.Context, device *lock.DiscoveredLock) error {
	if nil == device {
		return &ErrUnknownDevice{}
	}

	p.logger.Info("Starting claiming process", common.LogLockIDToken, device.HardwareID)
	claimable, err := p.connection.FetchClaimableLocks(ctx, p.settings.ClaimPage, p.settings.ClaimSize)
	if err != nil {
		return err
	}

	if 0 == len(claimable) {
		return p.fail(&ErrNoClaimableLocks{}, nil, device.HardwareID)
	}

	connected, err := p.connection.ConnectToLock(ctx, device)
	if err != nil {
		return p.fail(&ErrClaimConnect{}, err, device.HardwareID)
	}

	if connected.HardwareID != device.HardwareID {
		return p.fail(&ErrConnectedElsewhere{HardwareID: connected.HardwareID}, nil, device.HardwareID)
	}

	err = p.connection.Claim(ctx, connected, claimable[0])
	p.connection.DisconnectFromLock(ctx)
	if err != nil {
		return err
	}

	p.logger.Info("Claiming finished, reloading garages", common.LogLockIDToken, device.HardwareID)
	return p.LoadGaragesAfterActivation(ctx)
}

// OperateGarage toggles garage door.
// Open garage is locked, closed garage is unlocked.
func (p *projector) OperateGarage(ctx context.Context, id string) error {
	g, err := p.busyGarage(id, func(g *state.GarageDoor) {
		g.IsOperating = true
	})
	if err != nil {
		return err
	}

	defer p.updateGarage(id, func(g *state.GarageDoor) {
		g.IsOperating = false
	})

	connected := p.connection.ConnectedLock()
	if nil == connected || connected.HardwareID != g.ID {
		err = p.connect(ctx, g)
		if err != nil {
			return err
		}
	}

	open := g.IsOpen
	st := p.connection.LockState()
	if nil != st {
		open = isOpen(*st)
	}

	if open {
		p.logger.Info("Closing garage", common.LogGarageToken, id)
		err = p.connection.LockGarage(ctx)
	} else {
		p.logger.Info("Opening garage", common.LogGarageToken, id)
		err = p.connection.UnlockGarage(ctx)
	}

	return err
}

// ConnectGarage connects to the garage's lock.
func (p *projector) ConnectGarage(ctx context.Context, id string) error {
	g, err := p.busyGarage(id, nil)
	if err != nil {
		return err
	}

	connected := p.connection.ConnectedLock()
	if nil != connected && connected.HardwareID == g.ID {
		return nil
	}

	return p.connect(ctx, g)
}

// DisconnectGarage disconnects from the garage's lock.
func (p *projector) DisconnectGarage(ctx context.Context, id string) error {
	_, err := p.Garage(id)
	if err != nil {
		return err
	}

	connected := p.connection.ConnectedLock()
	if nil == connected || connected.HardwareID != id {
		return nil
	}

	return p.connection.DisconnectFromLock(ctx)
}

// Connects to the garage's lock maintaining connecting flag.
func (p *projector) connect(ctx context.Context, g *state.GarageDoor) error {
	p.updateGarage(g.ID, func(g *state.GarageDoor) {
		g.IsConnecting = true
	})

	defer p.updateGarage(g.ID, func(g *state.GarageDoor) {
		g.IsConnecting = false
	})

	connected, err := p.connection.ConnectToLock(ctx, g.DiscoveredDevice)
	if err != nil {
		return err
	}

	if connected.HardwareID != g.ID {
		return p.fail(&ErrConnectedElsewhere{HardwareID: connected.HardwareID}, nil, g.ID)
	}

	return nil
}

// Validates that garage is online and idle.
// Mark is applied in the same update.
func (p *projector) busyGarage(id string, mark func(g *state.GarageDoor)) (*state.GarageDoor, error) {
	var garage *state.GarageDoor
	var err error
	p.state.UpdateIf(func(d *state.Data) bool {
		g := findGarage(d.Garages, id)
		switch {
		case nil == g:
			err = &ErrUnknownGarage{ID: id}
		case g.IsFake || !g.IsOnline():
			err = &ErrGarageOffline{ID: id}
		case g.IsConnecting || g.IsOperating:
			err = &ErrGarageBusy{ID: id}
		default:
			if nil != mark {
				mark(g)
			}
			garage = g.Copy()
			return nil != mark
		}

		return false
	})

	if err != nil {
		p.logger.Warn("Garage is not available", common.LogGarageToken, id, common.LogErrorToken, err.Error())
		return nil, err
	}

	return garage, nil
}

// Applies change to the garage if it still exists.
func (p *projector) updateGarage(id string, fn func(g *state.GarageDoor)) {
	p.state.UpdateIf(func(d *state.Data) bool {
		g := findGarage(d.Garages, id)
		if nil == g {
			return false
		}

		fn(g)
		return true
	})
}

// Records failure as the latest error.
func (p *projector) fail(err error, cause error, id string) error {
	p.logger.Error(err.Error(), cause, common.LogLockIDToken, id)
	p.state.SetError(err.Error())
	return err
}
