package providers

import "github.com/go-home-io/garage/systems/state"

// IFanOutProvider defines interface used for distributing
// session state updates across all consumers.
type IFanOutProvider interface {
	SubscribeStateUpdates() (int64, chan *state.Snapshot)
	UnSubscribeStateUpdates(int64)
	Publish(*state.Snapshot)
}
