// Package fanout contains implementation of session state fan-out.
package fanout

import (
	"math/rand"
	"strconv"
	"sync"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/state"
	"github.com/go-home-io/garage/utils"
)

const (
	logSystem  = "fanout"
	bufferSize = 10
)

// Implements IFanOutProvider.
type provider struct {
	sync.Mutex

	logger          common.ILoggerProvider
	outStateUpdates map[int64]chan *state.Snapshot
}

// NewFanOut constructs new FanOut provider.
func NewFanOut(logger common.ILoggerProvider) providers.IFanOutProvider {
	return &provider{
		logger:          logger,
		outStateUpdates: make(map[int64]chan *state.Snapshot),
	}
}

// SubscribeStateUpdates allows to subscribe to the session state updates.
func (p *provider) SubscribeStateUpdates() (int64, chan *state.Snapshot) {
	p.Lock()
	defer p.Unlock()

	c := make(chan *state.Snapshot, bufferSize)
	rnd := p.getID()
	p.outStateUpdates[rnd] = c
	return rnd, c
}

// UnSubscribeStateUpdates allows to un-subscribe from the session state updates.
func (p *provider) UnSubscribeStateUpdates(id int64) {
	p.Lock()
	defer p.Unlock()

	c, ok := p.outStateUpdates[id]
	if !ok {
		return
	}

	close(c)
	delete(p.outStateUpdates, id)
}

// Publish broadcasts snapshot to every subscriber.
// Slow subscriber loses the oldest pending snapshot.
func (p *provider) Publish(snap *state.Snapshot) {
	p.Lock()
	defer p.Unlock()

	for id, v := range p.outStateUpdates {
		select {
		case v <- snap:
			continue
		default:
		}

		select {
		case <-v:
		default:
		}

		select {
		case v <- snap:
		default:
		}

		if nil != p.logger {
			p.logger.Debug("Subscriber is slow, dropped state update",
				common.LogSystemToken, logSystem, common.LogNameToken, strconv.FormatInt(id, 10))
		}
	}
}

// Returns random ID.
func (p *provider) getID() int64 {
	for {
		id := utils.TimeNow() + rand.Int63()
		if _, ok := p.outStateUpdates[id]; !ok {
			return id
		}
	}
}
