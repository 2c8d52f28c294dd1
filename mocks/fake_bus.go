//+build !release

package mocks

import (
	"sync"

	"github.com/go-home-io/garage/providers"
)

// FakeBusMessage has data of a single published message.
type FakeBusMessage struct {
	Topic   string
	Payload []byte
}

// FakeBus records published messages.
type FakeBus struct {
	sync.Mutex

	PublishErr error
	PingErr    error
	Closed     bool
	messages   []*FakeBusMessage
	callback   func(topic string, payload []byte)
}

// Publish records the message.
func (f *FakeBus) Publish(topic string, payload []byte) error {
	f.Lock()
	if nil != f.PublishErr {
		f.Unlock()
		return f.PublishErr
	}

	f.messages = append(f.messages, &FakeBusMessage{Topic: topic, Payload: payload})
	cb := f.callback
	f.Unlock()

	if nil != cb {
		cb(topic, payload)
	}

	return nil
}

// Ping returns configured error.
func (f *FakeBus) Ping() error {
	f.Lock()
	defer f.Unlock()

	return f.PingErr
}

// Close marks bus as closed.
func (f *FakeBus) Close() {
	f.Lock()
	defer f.Unlock()

	f.Closed = true
}

// Messages returns copy of published messages.
func (f *FakeBus) Messages() []*FakeBusMessage {
	f.Lock()
	defer f.Unlock()

	result := make([]*FakeBusMessage, len(f.messages))
	copy(result, f.messages)
	return result
}

// Last returns the latest message for the topic.
func (f *FakeBus) Last(topic string) *FakeBusMessage {
	f.Lock()
	defer f.Unlock()

	for ii := len(f.messages) - 1; ii >= 0; ii-- {
		if f.messages[ii].Topic == topic {
			return f.messages[ii]
		}
	}

	return nil
}

// FakeNewServiceBus creates a new fake bus provider.
func FakeNewServiceBus(callback func(topic string, payload []byte)) *FakeBus {
	return &FakeBus{
		messages: make([]*FakeBusMessage, 0),
		callback: callback,
	}
}

var _ providers.IBusProvider = (*FakeBus)(nil)
