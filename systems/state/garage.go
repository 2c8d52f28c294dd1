package state

import (
	"encoding/json"

	"github.com/go-home-io/garage/plugins/lock"
)

// GarageDoor describes a single garage displayed to the user.
type GarageDoor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	IsOpen   bool   `json:"is_open"`

	IsFake       bool `json:"is_fake"`
	IsConnecting bool `json:"is_connecting"`
	IsOperating  bool `json:"is_operating"`

	DiscoveredDevice *lock.DiscoveredLock `json:"discovered_device,omitempty"`
}

// IsOnline returns whether garage's lock is in range.
func (g *GarageDoor) IsOnline() bool {
	return g.DiscoveredDevice != nil
}

// Equal compares garages by ID only.
func (g *GarageDoor) Equal(other *GarageDoor) bool {
	if nil == g || nil == other {
		return g == other
	}

	return g.ID == other.ID
}

// Copy returns a detached copy of the garage.
func (g *GarageDoor) Copy() *GarageDoor {
	c := *g
	if nil != g.DiscoveredDevice {
		d := *g.DiscoveredDevice
		c.DiscoveredDevice = &d
	}

	return &c
}

// MarshalJSON adds derived online flag.
func (g *GarageDoor) MarshalJSON() ([]byte, error) {
	type plain GarageDoor
	return json.Marshal(&struct {
		*plain
		IsOnline bool `json:"is_online"`
	}{
		plain:    (*plain)(g),
		IsOnline: g.IsOnline(),
	})
}
