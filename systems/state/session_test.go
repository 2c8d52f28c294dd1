package state

import (
	"encoding/json"
	"testing"

	"github.com/go-home-io/garage/plugins/lock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests that every update is published and snapshots are detached.
func TestUpdatePublishes(t *testing.T) {
	published := make([]*Snapshot, 0)
	s := NewSession(func(snap *Snapshot) {
		published = append(published, snap)
	})

	assert.Equal(t, AppLoading, s.AppState())

	s.Update(func(d *Data) {
		d.Discovered = append(d.Discovered, &lock.DiscoveredLock{HardwareID: "1", Name: "Door"})
		d.Garages = append(d.Garages, &GarageDoor{ID: "1", Name: "Home"})
	})
	s.SetError("failure")

	require.Len(t, published, 2)
	assert.Equal(t, "", published[0].Error)
	assert.Equal(t, "failure", published[1].Error)
	assert.Equal(t, "failure", s.LastError())

	published[0].Discovered[0].Name = "changed"
	published[0].Garages[0].Name = "changed"

	snap := s.Snapshot()
	expected := &Snapshot{
		AppState:   AppLoading,
		Discovered: []*lock.DiscoveredLock{{HardwareID: "1", Name: "Door"}},
		Garages:    []*GarageDoor{{ID: "1", Name: "Home"}},
		Error:      "failure",
	}
	assert.Empty(t, cmp.Diff(expected, snap))
	assert.Equal(t, "Home", snap.Garages[0].Name)

	s.ClearError()
	assert.Equal(t, "", s.LastError())
}

// Tests snapshot copies connection and lock state.
func TestSnapshotConnection(t *testing.T) {
	s := NewSession(nil)
	st := lock.OpLocked
	s.Update(func(d *Data) {
		d.Connection = &lock.ConnectedLock{HardwareID: "1"}
		d.LockState = &st
	})

	snap := s.Snapshot()
	require.NotNil(t, snap.Connected)
	require.NotNil(t, snap.LockState)
	snap.Connected.HardwareID = "2"
	*snap.LockState = lock.OpJammed

	s.View(func(d *Data) {
		assert.Equal(t, "1", d.Connection.HardwareID)
		assert.Equal(t, lock.OpLocked, *d.LockState)
	})
}

// Tests garage identity and serialization.
func TestGarageDoor(t *testing.T) {
	g1 := &GarageDoor{ID: "1", Name: "One"}
	g2 := &GarageDoor{ID: "1", Name: "Other", IsOpen: true}
	g3 := &GarageDoor{ID: "2", Name: "One"}

	assert.True(t, g1.Equal(g2))
	assert.False(t, g1.Equal(g3))
	assert.False(t, g1.Equal(nil))
	assert.False(t, g1.IsOnline())

	g1.DiscoveredDevice = &lock.DiscoveredLock{HardwareID: "1"}
	assert.True(t, g1.IsOnline())

	d, err := json.Marshal(g1)
	require.NoError(t, err)

	parsed := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(d, &parsed))
	assert.Equal(t, true, parsed["is_online"])
	assert.Equal(t, "One", parsed["name"])

	d, err = json.Marshal(AppNeedsActivation)
	require.NoError(t, err)
	assert.Equal(t, `"needs-activation"`, string(d))
}

// Tests that unchanged state is not published.
func TestUpdateIf(t *testing.T) {
	published := 0
	s := NewSession(func(snap *Snapshot) {
		published++
	})

	assert.False(t, s.UpdateIf(func(d *Data) bool {
		return d.Scanning
	}))
	assert.Equal(t, 0, published)

	assert.True(t, s.UpdateIf(func(d *Data) bool {
		d.Scanning = true
		return true
	}))
	assert.Equal(t, 1, published)
	assert.True(t, s.Snapshot().Scanning)
}
