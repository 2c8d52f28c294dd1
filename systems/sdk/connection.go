package sdk

import (
	"context"
	"time"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
)

// Connect opens connection, replacing the current one.
func (s *Simulator) Connect(ctx context.Context, device *lock.DiscoveredLock,
	onUnexpectedDisconnect func()) (*lock.ConnectedLock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.initialized {
		return nil, &ErrNotInitialized{}
	}

	if nil == device {
		return nil, &ErrUnknownLock{}
	}

	if _, ok := s.locks[device.HardwareID]; !ok {
		return nil, &ErrUnknownLock{HardwareID: device.HardwareID}
	}

	s.dropConnection()
	s.connected = &lock.ConnectedLock{HardwareID: device.HardwareID}
	s.onDisconnect = onUnexpectedDisconnect

	s.logger.Info("Connected to lock", common.LogLockIDToken, device.HardwareID)
	c := *s.connected
	return &c, nil
}

// DisconnectFromLock closes current connection.
func (s *Simulator) DisconnectFromLock(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if nil != s.connected {
		s.logger.Info("Disconnected from lock", common.LogLockIDToken, s.connected.HardwareID)
	}

	s.dropConnection()
	return nil
}

// Lock closes the garage.
func (s *Simulator) Lock(ctx context.Context, connected *lock.ConnectedLock) error {
	return s.operate(connected, false)
}

// Unlock opens the garage.
func (s *Simulator) Unlock(ctx context.Context, connected *lock.ConnectedLock) error {
	return s.operate(connected, true)
}

// GetLockEvents returns events of the connected lock starting with its current state.
// Stream is closed on disconnect or context cancellation.
func (s *Simulator) GetLockEvents(ctx context.Context) <-chan *lock.Event {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make(chan *lock.Event, eventsBuffer)
	if nil == s.connected {
		close(out)
		return out
	}

	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = out
	out <- operationEvent(currentState(s.locks[s.connected.HardwareID].open))

	go func() {
		<-ctx.Done()
		s.mutex.Lock()
		defer s.mutex.Unlock()

		if ch, ok := s.subscribers[id]; ok {
			close(ch)
			delete(s.subscribers, id)
		}
	}()

	return out
}

// Starts lock operation which completes after configured duration.
func (s *Simulator) operate(connected *lock.ConnectedLock, open bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.checkConnected(connected); err != nil {
		return err
	}

	progress := lock.OpLocking
	if open {
		progress = lock.OpUnlocking
	}

	s.emit(operationEvent(progress))

	generation := s.generation
	hardwareID := connected.HardwareID
	time.AfterFunc(s.duration, func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		if generation != s.generation {
			return
		}

		l, ok := s.locks[hardwareID]
		if !ok {
			return
		}

		l.open = open
		s.emit(operationEvent(currentState(open)))
	})

	return nil
}

// Closes connection and every events stream.
func (s *Simulator) dropConnection() {
	s.generation++
	s.connected = nil
	s.onDisconnect = nil

	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
}

// Sends event to every subscriber without blocking.
func (s *Simulator) emit(ev *lock.Event) {
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("Lock events subscriber is slow, dropping event")
		}
	}
}

func currentState(open bool) lock.OperationState {
	if open {
		return lock.OpUnlocked
	}

	return lock.OpLocked
}

func operationEvent(st lock.OperationState) *lock.Event {
	return &lock.Event{NewState: lock.StateChange{Kind: lock.KindOperation, Operation: st}}
}
