package server

import (
	"context"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/state"
)

// Invokes garage command if it's allowed for the user.
func (s *GarageServer) commandInvokeGarageCommand(ctx context.Context, usr providers.IAuthenticatedUser,
	garageID string, opName string) error {
	if !usr.GarageCommand(garageID) {
		s.logger.Warn("Garage command is not allowed", common.LogUserNameToken, usr.Name(),
			common.LogGarageToken, garageID, common.LogLockCommandToken, opName)
		return &ErrForbidden{}
	}

	s.logger.Debug("Invoking garage command", common.LogUserNameToken, usr.Name(),
		common.LogGarageToken, garageID, common.LogLockCommandToken, opName)

	switch opName {
	case cmdOperate:
		return s.inventory.OperateGarage(ctx, garageID)
	case cmdConnect:
		return s.inventory.ConnectGarage(ctx, garageID)
	case cmdDisconnect:
		return s.inventory.DisconnectGarage(ctx, garageID)
	case cmdLock:
		return s.lockCommand(ctx, garageID, false)
	case cmdUnlock:
		return s.lockCommand(ctx, garageID, true)
	}

	s.logger.Warn("Received unknown command", common.LogGarageToken, garageID,
		common.LogLockCommandToken, opName)
	return &ErrUnknownCommand{Name: opName}
}

// Sends explicit lock or unlock, connecting to the garage first if needed.
func (s *GarageServer) lockCommand(ctx context.Context, garageID string, unlock bool) error {
	status, err := s.inventory.Status(garageID)
	if err != nil {
		return err
	}

	if providers.GarageConnected != status.Connection {
		if err := s.inventory.ConnectGarage(ctx, garageID); err != nil {
			return err
		}
	}

	if unlock {
		return s.connection.UnlockGarage(ctx)
	}

	return s.connection.LockGarage(ctx)
}

// Returns snapshot with garages visible to the user.
// Discovery data is visible to admins only.
func filterSnapshot(usr providers.IAuthenticatedUser, snap *state.Snapshot) *state.Snapshot {
	filtered := *snap
	filtered.Garages = make([]*state.GarageDoor, 0, len(snap.Garages))
	for _, v := range snap.Garages {
		if usr.GarageGet(v.ID) {
			filtered.Garages = append(filtered.Garages, v)
		}
	}

	if !usr.Admin() {
		filtered.Discovered = nil
		filtered.Connected = nil
		filtered.LockState = nil
	}

	return &filtered
}
