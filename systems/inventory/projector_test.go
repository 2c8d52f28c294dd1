package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/go-home-io/garage/mocks"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/connection"
	"github.com/go-home-io/garage/systems/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fixture struct {
	sdk        *mocks.FakeSDK
	state      *state.Session
	connection providers.IConnectionProvider
	inventory  providers.IInventoryProvider
	cron       *mocks.FakeCron
}

func getFixture(t *testing.T, settings *providers.InventorySettings) *fixture {
	f := &fixture{
		sdk:   mocks.FakeNewSDK(),
		state: state.NewSession(nil),
		cron:  mocks.FakeNewCron(),
	}

	f.connection = connection.NewCoordinator(&connection.ConstructCoordinator{
		SDK:    f.sdk,
		State:  f.state,
		Logger: mocks.FakeNewLogger(nil),
	})
	require.NoError(t, f.connection.InitializeSDK(context.Background()))

	f.inventory = NewProjector(&ConstructProjector{
		Connection: f.connection,
		State:      f.state,
		Logger:     mocks.FakeNewLogger(nil),
		Settings:   settings,
		Cron:       f.cron,
	})

	return f
}

func ids(garages []*state.GarageDoor) []string {
	result := make([]string, 0, len(garages))
	for _, v := range garages {
		result = append(result, v.ID)
	}

	return result
}

// Tests that empty accesses fall back to demo garages.
func TestDemoFallback(t *testing.T) {
	f := getFixture(t, nil)
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))

	garages := f.inventory.Garages()
	require.Len(t, garages, 2)
	assert.Equal(t, []string{"garage1", "garage2"}, ids(garages))
	assert.Equal(t, "Main Garage (Demo)", garages[0].Name)
	assert.Equal(t, "Home", garages[0].Location)
	assert.False(t, garages[0].IsOpen)
	assert.True(t, garages[1].IsOpen)
	for _, v := range garages {
		assert.True(t, v.IsFake)
	}
}

// Tests that demo fallback could be disabled.
func TestNoDemoFallback(t *testing.T) {
	f := getFixture(t, &providers.InventorySettings{SkipDemoFallback: true})
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))
	assert.Len(t, f.inventory.Garages(), 0)
}

// Tests mapping of real accesses.
func TestRealGarages(t *testing.T) {
	f := getFixture(t, nil)
	f.sdk.Accesses = []*lock.Access{
		{LockID: "a", Title: "North"},
		{LockID: "b", Title: "South"},
	}

	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))
	garages := f.inventory.Garages()
	assert.Equal(t, []string{"a", "b"}, ids(garages))
	assert.Equal(t, "North", garages[0].Name)
	assert.Equal(t, "Remote Access", garages[0].Location)
	assert.False(t, garages[0].IsFake)

	_, err := f.inventory.Garage("garage1")
	assert.IsType(t, &ErrUnknownGarage{}, err)
}

// Tests that failed fetch keeps inventory.
func TestLoadFailure(t *testing.T) {
	f := getFixture(t, nil)
	f.sdk.Accesses = []*lock.Access{{LockID: "a", Title: "North"}}
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))

	f.sdk.Set(func(s *mocks.FakeSDK) {
		s.AccessesErr = errors.New("network")
	})
	assert.Error(t, f.inventory.LoadGaragesAfterActivation(context.Background()))
	assert.Equal(t, []string{"a"}, ids(f.inventory.Garages()))
	assert.NotEqual(t, "", f.state.LastError())
}

// Tests garages correlation with discovered locks.
func TestUpdateGarageStatuses(t *testing.T) {
	f := getFixture(t, nil)
	f.sdk.Accesses = []*lock.Access{
		{LockID: "a", Title: "North"},
		{LockID: "b", Title: "South"},
	}
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))

	f.inventory.UpdateGarageStatuses([]*lock.DiscoveredLock{{HardwareID: "b"}, {HardwareID: "c"}})
	garages := f.inventory.Garages()
	assert.False(t, garages[0].IsOnline())
	assert.True(t, garages[1].IsOnline())

	f.inventory.UpdateGarageStatuses(nil)
	for _, v := range f.inventory.Garages() {
		assert.False(t, v.IsOnline())
	}
}

// Tests that discovery changes update garages.
func TestDiscoveryCorrelation(t *testing.T) {
	defer leaktest.Check(t)()

	f := getFixture(t, nil)
	f.sdk.Accesses = []*lock.Access{{LockID: "a", Title: "North"}}
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))

	f.connection.StartScanning()
	defer f.connection.StopScanning()

	f.sdk.Discovery <- &lock.DiscoveryEvent{
		Type: lock.DiscoveryDiscovered,
		Lock: &lock.DiscoveredLock{HardwareID: "a"},
	}
	f.sdk.Discovery <- &lock.DiscoveryEvent{
		Type: lock.DiscoveryDiscovered,
		Lock: &lock.DiscoveredLock{HardwareID: "z", Name: "New"},
	}

	require.Eventually(t, func() bool {
		return f.inventory.Garages()[0].IsOnline() && 2 == len(f.connection.DiscoveredLocks())
	}, waitFor, tick)

	unclaimed := f.inventory.UnclaimedLocks()
	require.Len(t, unclaimed, 1)
	assert.Equal(t, "z", unclaimed[0].HardwareID)

	f.sdk.Discovery <- &lock.DiscoveryEvent{
		Type: lock.DiscoveryDisappeared,
		Lock: &lock.DiscoveredLock{HardwareID: "a"},
	}

	require.Eventually(t, func() bool {
		return !f.inventory.Garages()[0].IsOnline()
	}, waitFor, tick)

	status, err := f.inventory.Status("a")
	require.NoError(t, err)
	assert.Equal(t, providers.GarageOffline, status.Connection)
}

// Tests door text of garages without lock state.
func TestStatusDoorText(t *testing.T) {
	f := getFixture(t, nil)
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))

	closed, err := f.inventory.Status("garage1")
	require.NoError(t, err)
	assert.Equal(t, "Closed", closed.State)
	assert.False(t, closed.IsOpen)

	open, err := f.inventory.Status("garage2")
	require.NoError(t, err)
	assert.Equal(t, "Open", open.State)
	assert.True(t, open.IsOpen)
}

// Tests clearing the inventory.
func TestClear(t *testing.T) {
	f := getFixture(t, nil)
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))
	f.inventory.Clear()
	assert.Len(t, f.inventory.Garages(), 0)
}

// Tests that load finished after clear doesn't refill the inventory.
func TestClearDuringLoad(t *testing.T) {
	f := getFixture(t, nil)
	gate := make(chan struct{})
	f.sdk.Set(func(s *mocks.FakeSDK) {
		s.Accesses = []*lock.Access{{LockID: "a", Title: "North"}}
		s.AccessesGate = gate
	})

	done := make(chan error, 1)
	go func() {
		done <- f.inventory.LoadGaragesAfterActivation(context.Background())
	}()

	require.Eventually(t, func() bool {
		return 1 == f.sdk.Calls("FetchAccesses")
	}, waitFor, tick)

	f.inventory.Clear()
	close(gate)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		require.FailNow(t, "load didn't finish")
	}

	assert.Len(t, f.inventory.Garages(), 0)

	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))
	assert.Equal(t, []string{"a"}, ids(f.inventory.Garages()))
}

// Tests that defaults don't leak into the caller's settings.
func TestSettingsNotModified(t *testing.T) {
	settings := &providers.InventorySettings{}
	f := getFixture(t, settings)

	assert.Equal(t, "", settings.Location)
	assert.Equal(t, 0, settings.ClaimSize)

	f.sdk.Set(func(s *mocks.FakeSDK) {
		s.Accesses = []*lock.Access{{LockID: "a", Title: "North"}}
	})
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))
	g, err := f.inventory.Garage("a")
	require.NoError(t, err)
	assert.Equal(t, "Remote Access", g.Location)
}

// Tests periodic refresh scheduling.
func TestRefresh(t *testing.T) {
	f := getFixture(t, &providers.InventorySettings{Refresh: "@every 1m"})

	f.inventory.StartRefresh()
	f.inventory.StartRefresh()
	assert.Equal(t, 1, f.cron.Jobs())

	f.sdk.Set(func(s *mocks.FakeSDK) {
		s.Accesses = []*lock.Access{{LockID: "a", Title: "North"}}
	})
	f.cron.RunAll()
	assert.Equal(t, []string{"a"}, ids(f.inventory.Garages()))

	f.inventory.StopRefresh()
	f.inventory.StopRefresh()
	assert.Equal(t, 0, f.cron.Jobs())

	n := getFixture(t, nil)
	n.inventory.StartRefresh()
	assert.Equal(t, 0, n.cron.Jobs())
}
