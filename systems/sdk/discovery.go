package sdk

import (
	"context"
	"time"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
)

// StartLockDiscovery announces every lock in range periodically.
// Previous stream is stopped.
func (s *Simulator) StartLockDiscovery(ctx context.Context) <-chan *lock.DiscoveryEvent {
	out := make(chan *lock.DiscoveryEvent, discoveryBuffer)

	s.mutex.Lock()
	if nil != s.discoveryCancel {
		s.discoveryCancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.discoveryCancel = cancel
	interval := s.announce
	s.mutex.Unlock()

	go s.discover(ctx, out, interval)
	return out
}

// StopLockDiscovery ends the current stream.
func (s *Simulator) StopLockDiscovery() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if nil != s.discoveryCancel {
		s.discoveryCancel()
		s.discoveryCancel = nil
	}
}

// SetInRange moves lock in or out of the radio range.
// Lock out of range disappears from discovery and drops its connection.
func (s *Simulator) SetInRange(hardwareID string, name string, inRange bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, ok := s.locks[hardwareID]
	if inRange {
		if !ok {
			s.locks[hardwareID] = &simLock{name: name}
			s.order = append(s.order, hardwareID)
		}
		return
	}

	if !ok {
		return
	}

	delete(s.locks, hardwareID)
	for ii, v := range s.order {
		if v == hardwareID {
			s.order = append(s.order[:ii], s.order[ii+1:]...)
			break
		}
	}

	if nil != s.connected && s.connected.HardwareID == hardwareID {
		cb := s.onDisconnect
		s.dropConnection()
		if nil != cb {
			go cb()
		}
	}
}

// Discovery loop.
func (s *Simulator) discover(ctx context.Context, out chan *lock.DiscoveryEvent, interval time.Duration) {
	defer close(out)

	s.logger.Debug("Discovery stream started")
	known := make(map[string]bool)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, v := range s.announcements(known) {
			select {
			case out <- v:
			case <-ctx.Done():
				s.logger.Debug("Discovery stream stopped")
				return
			}
		}

		select {
		case <-ctx.Done():
			s.logger.Debug("Discovery stream stopped")
			return
		case <-ticker.C:
		}
	}
}

// Returns events for locks in range and locks gone since the previous announce.
func (s *Simulator) announcements(known map[string]bool) []*lock.DiscoveryEvent {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	result := make([]*lock.DiscoveryEvent, 0, len(s.order))
	current := make(map[string]bool)
	for _, id := range s.order {
		l := s.locks[id]
		current[id] = true
		result = append(result, &lock.DiscoveryEvent{
			Type: lock.DiscoveryDiscovered,
			Lock: &lock.DiscoveredLock{HardwareID: id, Name: l.name, IsClaimed: l.claimed},
		})
	}

	for id := range known {
		if current[id] {
			continue
		}

		delete(known, id)
		s.logger.Debug("Lock disappeared", common.LogLockIDToken, id)
		result = append(result, &lock.DiscoveryEvent{
			Type: lock.DiscoveryDisappeared,
			Lock: &lock.DiscoveredLock{HardwareID: id},
		})
	}

	for id := range current {
		known[id] = true
	}

	return result
}
