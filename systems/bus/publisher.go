package bus

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/logger"
	"github.com/go-home-io/garage/systems/state"
)

// ConstructStatePublisher has data required for a new state publisher.
type ConstructStatePublisher struct {
	Bus    providers.IBusProvider
	FanOut providers.IFanOutProvider
	Logger common.ILoggerProvider
	Prefix string
}

// StatePublisher mirrors session snapshots to the bus.
type StatePublisher struct {
	sync.Mutex

	bus    providers.IBusProvider
	fanOut providers.IFanOutProvider
	logger common.ILoggerProvider
	prefix string

	lastMutex sync.Mutex
	last      map[string][]byte

	subID   int64
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewStatePublisher constructs a new state publisher.
func NewStatePublisher(ctor *ConstructStatePublisher) *StatePublisher {
	return &StatePublisher{
		bus:    ctor.Bus,
		fanOut: ctor.FanOut,
		prefix: ctor.Prefix,
		last:   make(map[string][]byte),
		logger: logger.NewSystemLogger(&logger.ConstructSystemLogger{
			Logger: ctor.Logger,
			System: logSystem,
		}),
	}
}

// Start subscribes to the state updates.
func (p *StatePublisher) Start() {
	p.Lock()
	defer p.Unlock()

	if p.running {
		return
	}

	id, ch := p.fanOut.SubscribeStateUpdates()
	p.subID = id
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.running = true

	go p.listen(ch, p.stop, p.done)
}

// Stop un-subscribes and waits for the listener.
func (p *StatePublisher) Stop() {
	p.Lock()
	if !p.running {
		p.Unlock()
		return
	}

	p.running = false
	close(p.stop)
	done := p.done
	p.fanOut.UnSubscribeStateUpdates(p.subID)
	p.Unlock()

	<-done
}

// Listens for snapshots until stopped.
func (p *StatePublisher) listen(ch chan *state.Snapshot, stop chan struct{}, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}

			p.Publish(snap)
		}
	}
}

// Publish sends snapshot and every garage which changed since the last publish.
// Garages removed from inventory get their retained message cleared.
func (p *StatePublisher) Publish(snap *state.Snapshot) {
	p.lastMutex.Lock()
	defer p.lastMutex.Unlock()

	messages := make(map[string][]byte)

	data, err := json.Marshal(snap)
	if err != nil {
		p.logger.Error("Failed to marshal state", err)
		return
	}

	messages[StateTopic(p.prefix)] = data

	for _, v := range snap.Garages {
		data, err := json.Marshal(v)
		if err != nil {
			p.logger.Error("Failed to marshal garage", err, common.LogGarageToken, v.ID)
			continue
		}

		messages[GarageTopic(p.prefix, v.ID)] = data
	}

	for topic := range p.last {
		if _, ok := messages[topic]; !ok {
			messages[topic] = []byte{}
		}
	}

	for topic, payload := range messages {
		if prev, ok := p.last[topic]; ok && bytes.Equal(prev, payload) {
			continue
		}

		if err := p.bus.Publish(topic, payload); err != nil {
			p.logger.Error("Failed to publish state", err, common.LogTopicToken, topic)
			continue
		}

		if 0 == len(payload) {
			delete(p.last, topic)
			continue
		}

		p.last[topic] = payload
	}
}
