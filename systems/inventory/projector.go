// Package inventory contains garage inventory projector.
package inventory

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/logger"
	"github.com/go-home-io/garage/systems/state"
)

const (
	logSystem        = "inventory"
	defaultLocation  = "Remote Access"
	defaultClaimSize = 50
)

// Implements garage inventory projector.
type projector struct {
	sync.Mutex

	connection providers.IConnectionProvider
	state      *state.Session
	logger     common.ILoggerProvider
	settings   *providers.InventorySettings
	cron       providers.ICronProvider

	refreshID int
	// Bumped by Clear, accessed only inside state updates.
	epoch uint64
}

// ConstructProjector has data required for a new inventory projector.
type ConstructProjector struct {
	Connection providers.IConnectionProvider
	State      *state.Session
	Logger     common.ILoggerProvider
	Settings   *providers.InventorySettings
	Cron       providers.ICronProvider
}

// NewProjector creates a new inventory projector.
// Projector follows every discovered set change.
func NewProjector(ctor *ConstructProjector) providers.IInventoryProvider {
	settings := &providers.InventorySettings{}
	if nil != ctor.Settings {
		*settings = *ctor.Settings
	}

	if "" == settings.Location {
		settings.Location = defaultLocation
	}

	if settings.ClaimSize <= 0 {
		settings.ClaimSize = defaultClaimSize
	}

	p := &projector{
		connection: ctor.Connection,
		state:      ctor.State,
		logger: logger.NewSystemLogger(&logger.ConstructSystemLogger{
			Logger: ctor.Logger,
			System: logSystem,
		}),
		settings:   settings,
		cron:       ctor.Cron,
		refreshID:  -1,
	}

	p.connection.OnDiscoveryChanged(func(d *state.Data) {
		correlate(d.Garages, d.Discovered)
	})

	return p
}

// LoadGaragesAfterActivation replaces inventory with user's accesses.
// Demo garages are displayed when user has no accesses.
// Result is dropped if the inventory was cleared while accesses were fetched.
func (p *projector) LoadGaragesAfterActivation(ctx context.Context) error {
	var epoch uint64
	p.state.View(func(d *state.Data) {
		epoch = p.epoch
	})

	accesses, err := p.connection.FetchUserAccesses(ctx)
	if err != nil {
		p.logger.Error("Failed to load garages", err)
		return err
	}

	garages := make([]*state.GarageDoor, 0, len(accesses))
	for _, v := range accesses {
		garages = append(garages, &state.GarageDoor{
			ID:       v.LockID,
			Name:     v.Title,
			Location: p.settings.Location,
		})
	}

	if 0 == len(garages) && !p.settings.SkipDemoFallback {
		p.logger.Info("No real accesses found, loading demo garages")
		garages = demoGarages()
	} else {
		p.logger.Info("Loaded garages", common.LogCountToken, strconv.Itoa(len(garages)))
	}

	stale := false
	p.state.UpdateIf(func(d *state.Data) bool {
		if epoch != p.epoch {
			stale = true
			return false
		}

		d.Garages = garages
		correlate(d.Garages, d.Discovered)
		return true
	})

	if stale {
		p.logger.Info("Inventory was cleared while loading, dropping loaded garages")
	}

	return nil
}

// UpdateGarageStatuses attaches discovered locks to garages.
func (p *projector) UpdateGarageStatuses(discovered []*lock.DiscoveredLock) {
	locks := state.CopyLocks(discovered)
	p.state.Update(func(d *state.Data) {
		correlate(d.Garages, locks)
	})
}

// UnclaimedLocks returns discovered locks missing in the inventory.
func (p *projector) UnclaimedLocks() []*lock.DiscoveredLock {
	result := make([]*lock.DiscoveredLock, 0)
	p.state.View(func(d *state.Data) {
		for _, v := range d.Discovered {
			if v.IsClaimed || nil != findGarage(d.Garages, v.HardwareID) {
				continue
			}

			c := *v
			result = append(result, &c)
		}
	})

	return result
}

// Garages returns copy of the inventory.
func (p *projector) Garages() []*state.GarageDoor {
	var garages []*state.GarageDoor
	p.state.View(func(d *state.Data) {
		garages = state.CopyGarages(d.Garages)
	})

	return garages
}

// Garage returns copy of the single garage.
func (p *projector) Garage(id string) (*state.GarageDoor, error) {
	var garage *state.GarageDoor
	p.state.View(func(d *state.Data) {
		g := findGarage(d.Garages, id)
		if nil != g {
			garage = g.Copy()
		}
	})

	if nil == garage {
		return nil, &ErrUnknownGarage{ID: id}
	}

	return garage, nil
}

// Status returns garage's connection and lock state.
func (p *projector) Status(id string) (*providers.GarageStatus, error) {
	var status *providers.GarageStatus
	p.state.View(func(d *state.Data) {
		g := findGarage(d.Garages, id)
		if nil == g {
			return
		}

		status = &providers.GarageStatus{
			ID:         g.ID,
			Name:       g.Name,
			Connection: providers.GarageOffline,
			IsOpen:     g.IsOpen,
			IsFake:     g.IsFake,
			Busy:       g.IsConnecting || g.IsOperating,
			State:      doorText(g.IsOpen),
		}

		if g.IsOnline() {
			status.Connection = providers.GarageInRange
		}

		if nil != d.Connection && d.Connection.HardwareID == g.ID {
			status.Connection = providers.GarageConnected
			if nil != d.LockState {
				status.State = d.LockState.DisplayText()
				status.IsOpen = isOpen(*d.LockState)
			}
		}
	})

	if nil == status {
		return nil, &ErrUnknownGarage{ID: id}
	}

	return status, nil
}

// Clear removes all garages.
// Loads which are in flight are discarded.
func (p *projector) Clear() {
	p.state.Update(func(d *state.Data) {
		p.epoch++
		d.Garages = make([]*state.GarageDoor, 0)
	})

	p.logger.Info("Garages cleared")
}

// Attaches discovered lock to every garage with the same ID.
// Must be called inside state update.
func correlate(garages []*state.GarageDoor, discovered []*lock.DiscoveredLock) {
	for _, g := range garages {
		g.DiscoveredDevice = nil
		for _, v := range discovered {
			if v.HardwareID == g.ID {
				c := *v
				g.DiscoveredDevice = &c
				break
			}
		}
	}
}

// Finds garage by ID.
func findGarage(garages []*state.GarageDoor, id string) *state.GarageDoor {
	for _, v := range garages {
		if v.ID == id {
			return v
		}
	}

	return nil
}

// Door is open only when the lock reports unlocked.
func isOpen(st lock.OperationState) bool {
	return lock.OpUnlocked == st
}

// Door position text shown without lock state.
func doorText(open bool) string {
	if open {
		return "Open"
	}

	return "Closed"
}

// Fixed demo set.
func demoGarages() []*state.GarageDoor {
	return []*state.GarageDoor{
		{ID: "garage1", Name: "Main Garage (Demo)", Location: "Home", IsFake: true},
		{ID: "garage2", Name: "Side Garage (Demo)", Location: "Home", IsOpen: true, IsFake: true},
	}
}
