// Package state contains the single session state shared by all garage systems.
package state

import (
	"sync"

	"github.com/go-home-io/garage/plugins/lock"
)

// Data holds mutable session state.
// It's accessible only inside Session.Update and Session.View.
type Data struct {
	AppState    AppState
	Initialized bool

	Scanning   bool
	ScanEpoch  uint64
	Discovered []*lock.DiscoveredLock

	Connection      *lock.ConnectedLock
	ConnectionEpoch uint64
	Connecting      bool
	LockState       *lock.OperationState

	Garages []*GarageDoor

	LastError string
}

// Snapshot describes detached copy of the session state.
type Snapshot struct {
	AppState    AppState               `json:"app_state"`
	Initialized bool                   `json:"initialized"`
	Scanning    bool                   `json:"scanning"`
	Discovered  []*lock.DiscoveredLock `json:"discovered"`
	Connected   *lock.ConnectedLock    `json:"connected,omitempty"`
	LockState   *lock.OperationState   `json:"lock_state,omitempty"`
	Garages     []*GarageDoor          `json:"garages"`
	Error       string                 `json:"error,omitempty"`
}

// Publisher receives every new snapshot.
// It's invoked while session is locked and must not block.
type Publisher func(*Snapshot)

// Session is the single owner of the garage state.
type Session struct {
	mutex     sync.Mutex
	data      Data
	publisher Publisher
}

// NewSession constructs a new session in loading state.
func NewSession(publisher Publisher) *Session {
	return &Session{
		publisher: publisher,
		data: Data{
			AppState:   AppLoading,
			Discovered: make([]*lock.DiscoveredLock, 0),
			Garages:    make([]*GarageDoor, 0),
		},
	}
}

// Update mutates state and publishes a new snapshot.
func (s *Session) Update(fn func(d *Data)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	fn(&s.data)
	if nil != s.publisher {
		s.publisher(s.snapshot())
	}
}

// UpdateIf mutates state and publishes a new snapshot only if fn reports a change.
func (s *Session) UpdateIf(fn func(d *Data) bool) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	changed := fn(&s.data)
	if changed && nil != s.publisher {
		s.publisher(s.snapshot())
	}

	return changed
}

// View provides read-only access to the state.
func (s *Session) View(fn func(d *Data)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	fn(&s.data)
}

// Snapshot returns detached copy of the current state.
func (s *Session) Snapshot() *Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.snapshot()
}

// SetError overwrites the latest error.
func (s *Session) SetError(msg string) {
	s.Update(func(d *Data) {
		d.LastError = msg
	})
}

// ClearError removes the latest error.
func (s *Session) ClearError() {
	s.Update(func(d *Data) {
		d.LastError = ""
	})
}

// LastError returns the latest error message.
func (s *Session) LastError() string {
	msg := ""
	s.View(func(d *Data) {
		msg = d.LastError
	})

	return msg
}

// AppState returns current application state.
func (s *Session) AppState() AppState {
	st := AppLoading
	s.View(func(d *Data) {
		st = d.AppState
	})

	return st
}

// Copies the current state.
func (s *Session) snapshot() *Snapshot {
	snap := &Snapshot{
		AppState:    s.data.AppState,
		Initialized: s.data.Initialized,
		Scanning:    s.data.Scanning,
		Discovered:  CopyLocks(s.data.Discovered),
		Garages:     CopyGarages(s.data.Garages),
		Error:       s.data.LastError,
	}

	if nil != s.data.Connection {
		c := *s.data.Connection
		snap.Connected = &c
	}

	if nil != s.data.LockState {
		ls := *s.data.LockState
		snap.LockState = &ls
	}

	return snap
}

// CopyLocks returns detached copy of discovered locks.
func CopyLocks(locks []*lock.DiscoveredLock) []*lock.DiscoveredLock {
	result := make([]*lock.DiscoveredLock, 0, len(locks))
	for _, v := range locks {
		c := *v
		result = append(result, &c)
	}

	return result
}

// CopyGarages returns detached copy of garages.
func CopyGarages(garages []*GarageDoor) []*GarageDoor {
	result := make([]*GarageDoor, 0, len(garages))
	for _, v := range garages {
		result = append(result, v.Copy())
	}

	return result
}
