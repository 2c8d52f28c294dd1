//+build !release

package mocks

import (
	"sync"

	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/state"
)

type fakeFanOut struct {
	sync.Mutex
	subscribers map[int64]chan *state.Snapshot
	nextID      int64
}

func (f *fakeFanOut) SubscribeStateUpdates() (int64, chan *state.Snapshot) {
	f.Lock()
	defer f.Unlock()

	f.nextID++
	ch := make(chan *state.Snapshot, 100)
	f.subscribers[f.nextID] = ch
	return f.nextID, ch
}

func (f *fakeFanOut) UnSubscribeStateUpdates(id int64) {
	f.Lock()
	defer f.Unlock()

	delete(f.subscribers, id)
}

func (f *fakeFanOut) Publish(snap *state.Snapshot) {
	f.Lock()
	defer f.Unlock()

	for _, v := range f.subscribers {
		select {
		case v <- snap:
		default:
		}
	}
}

// FakeNewFanOut creates a new fake fan-out provider.
func FakeNewFanOut() providers.IFanOutProvider {
	return &fakeFanOut{
		subscribers: make(map[int64]chan *state.Snapshot),
	}
}
