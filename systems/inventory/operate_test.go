package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unclaimed = &lock.DiscoveredLock{HardwareID: "new-lock", Name: "New"}

// Tests that claim is aborted without placeholders.
func TestClaimNoPlaceholders(t *testing.T) {
	f := getFixture(t, nil)

	err := f.inventory.ClaimDevice(context.Background(), unclaimed)
	assert.IsType(t, &ErrNoClaimableLocks{}, err)
	assert.Equal(t, 0, f.sdk.Calls("Connect"))
	assert.Equal(t, (&ErrNoClaimableLocks{}).Error(), f.state.LastError())
}

// Tests that claim is aborted on failed connect.
func TestClaimConnectFailure(t *testing.T) {
	f := getFixture(t, nil)
	f.sdk.Claimable = []*lock.ClaimableLock{{ID: "p1", Name: "Placeholder"}}
	f.sdk.ConnectErr = errors.New("out of range")

	err := f.inventory.ClaimDevice(context.Background(), unclaimed)
	assert.IsType(t, &ErrClaimConnect{}, err)
	assert.Equal(t, 1, f.sdk.Calls("Connect"))
	assert.Equal(t, 0, f.sdk.Calls("Claim"))
	assert.Equal(t, 0, f.sdk.Calls("DisconnectFromLock"))
}

// Tests that claimed lock is always disconnected.
func TestClaim(t *testing.T) {
	data := []struct {
		name     string
		claimErr error
		reloads  int
	}{
		{name: "success", reloads: 1},
		{name: "failure", claimErr: errors.New("rejected")},
	}

	for _, v := range data {
		t.Run(v.name, func(t *testing.T) {
			defer leaktest.Check(t)()

			f := getFixture(t, nil)
			f.sdk.Claimable = []*lock.ClaimableLock{{ID: "p1", Name: "First"}, {ID: "p2", Name: "Second"}}
			f.sdk.ClaimErr = v.claimErr

			err := f.inventory.ClaimDevice(context.Background(), unclaimed)
			if nil == v.claimErr {
				require.NoError(t, err)
				require.Len(t, f.sdk.Claimed, 1)
				assert.Equal(t, "p1", f.sdk.Claimed[0].ID)
			} else {
				assert.Error(t, err)
			}

			assert.Equal(t, 1, f.sdk.Calls("Claim"))
			assert.Equal(t, 1, f.sdk.Calls("DisconnectFromLock"))
			assert.Equal(t, v.reloads, f.sdk.Calls("FetchAccesses"))
			assert.Nil(t, f.connection.ConnectedLock())
		})
	}
}

// Tests that claim never uses connection to another lock.
func TestClaimConnectedElsewhere(t *testing.T) {
	defer leaktest.Check(t)()

	f := getFixture(t, nil)
	f.sdk.Claimable = []*lock.ClaimableLock{{ID: "p1"}}
	_, err := f.connection.ConnectToLock(context.Background(), &lock.DiscoveredLock{HardwareID: "other"})
	require.NoError(t, err)
	defer f.connection.DisconnectFromLock(context.Background())

	err = f.inventory.ClaimDevice(context.Background(), unclaimed)
	assert.IsType(t, &ErrConnectedElsewhere{}, err)
	assert.Equal(t, 0, f.sdk.Calls("Claim"))
	assert.NotNil(t, f.connection.ConnectedLock())
}

func onlineFixture(t *testing.T) *fixture {
	f := getFixture(t, nil)
	f.sdk.Accesses = []*lock.Access{{LockID: "a", Title: "North"}, {LockID: "b", Title: "South"}}
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))
	f.inventory.UpdateGarageStatuses([]*lock.DiscoveredLock{{HardwareID: "a"}})
	return f
}

// Tests operating unavailable garages.
func TestOperateUnavailable(t *testing.T) {
	f := onlineFixture(t)

	assert.IsType(t, &ErrUnknownGarage{}, f.inventory.OperateGarage(context.Background(), "x"))
	assert.IsType(t, &ErrGarageOffline{}, f.inventory.OperateGarage(context.Background(), "b"))
	assert.Equal(t, 0, f.sdk.Calls("Connect"))

	d := getFixture(t, nil)
	require.NoError(t, d.inventory.LoadGaragesAfterActivation(context.Background()))
	assert.IsType(t, &ErrGarageOffline{}, d.inventory.OperateGarage(context.Background(), "garage1"))
}

// Tests that closed garage is unlocked and open one is locked.
func TestOperateGarage(t *testing.T) {
	defer leaktest.Check(t)()

	f := onlineFixture(t)
	require.NoError(t, f.inventory.OperateGarage(context.Background(), "a"))
	assert.Equal(t, 1, f.sdk.Calls("Connect"))
	assert.Equal(t, 1, f.sdk.Calls("Unlock"))
	defer f.connection.DisconnectFromLock(context.Background())

	g, err := f.inventory.Garage("a")
	require.NoError(t, err)
	assert.False(t, g.IsOperating)
	assert.False(t, g.IsConnecting)

	f.sdk.LockEvents <- &lock.Event{NewState: lock.StateChange{Kind: lock.KindOperation, Operation: lock.OpUnlocked}}
	require.Eventually(t, func() bool {
		s := f.connection.LockState()
		return nil != s && lock.OpUnlocked == *s
	}, waitFor, tick)

	status, err := f.inventory.Status("a")
	require.NoError(t, err)
	assert.Equal(t, providers.GarageConnected, status.Connection)
	assert.Equal(t, "Unlocked", status.State)
	assert.True(t, status.IsOpen)

	require.NoError(t, f.inventory.OperateGarage(context.Background(), "a"))
	assert.Equal(t, 1, f.sdk.Calls("Connect"))
	assert.Equal(t, 1, f.sdk.Calls("Lock"))
}

// Tests that only unlocked lock means open door.
func TestOperateWhileUnlocking(t *testing.T) {
	defer leaktest.Check(t)()

	f := onlineFixture(t)
	require.NoError(t, f.inventory.ConnectGarage(context.Background(), "a"))
	defer f.connection.DisconnectFromLock(context.Background())

	f.sdk.LockEvents <- &lock.Event{NewState: lock.StateChange{Kind: lock.KindOperation, Operation: lock.OpUnlocking}}
	require.Eventually(t, func() bool {
		s := f.connection.LockState()
		return nil != s && lock.OpUnlocking == *s
	}, waitFor, tick)

	status, err := f.inventory.Status("a")
	require.NoError(t, err)
	assert.Equal(t, "Unlocking...", status.State)
	assert.False(t, status.IsOpen)

	require.NoError(t, f.inventory.OperateGarage(context.Background(), "a"))
	assert.Equal(t, 1, f.sdk.Calls("Unlock"))
	assert.Equal(t, 0, f.sdk.Calls("Lock"))
}

// Tests explicit garage connect and disconnect.
func TestConnectGarage(t *testing.T) {
	defer leaktest.Check(t)()

	f := onlineFixture(t)
	require.NoError(t, f.inventory.ConnectGarage(context.Background(), "a"))
	require.NoError(t, f.inventory.ConnectGarage(context.Background(), "a"))
	assert.Equal(t, 1, f.sdk.Calls("Connect"))

	status, err := f.inventory.Status("a")
	require.NoError(t, err)
	assert.Equal(t, providers.GarageConnected, status.Connection)
	assert.Equal(t, "Closed", status.State)

	require.NoError(t, f.inventory.DisconnectGarage(context.Background(), "b"))
	assert.NotNil(t, f.connection.ConnectedLock())

	require.NoError(t, f.inventory.DisconnectGarage(context.Background(), "a"))
	assert.Nil(t, f.connection.ConnectedLock())

	status, err = f.inventory.Status("a")
	require.NoError(t, err)
	assert.Equal(t, providers.GarageInRange, status.Connection)
}

// Tests operating garage while connected to another lock.
func TestOperateConnectedElsewhere(t *testing.T) {
	defer leaktest.Check(t)()

	f := onlineFixture(t)
	_, err := f.connection.ConnectToLock(context.Background(), &lock.DiscoveredLock{HardwareID: "other"})
	require.NoError(t, err)
	defer f.connection.DisconnectFromLock(context.Background())

	assert.IsType(t, &ErrConnectedElsewhere{}, f.inventory.OperateGarage(context.Background(), "a"))
	assert.Equal(t, 0, f.sdk.Calls("Unlock"))

	g, err := f.inventory.Garage("a")
	require.NoError(t, err)
	assert.False(t, g.IsConnecting)
	assert.False(t, g.IsOperating)
}
