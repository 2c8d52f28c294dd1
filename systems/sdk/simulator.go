// Package sdk contains in-memory lock SDK used when no hardware is available.
package sdk

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/logger"
)

const (
	logSystem = "sdk"

	eventsBuffer    = 10
	discoveryBuffer = 10
)

// Simulated physical lock.
type simLock struct {
	name    string
	claimed bool
	open    bool
}

// Simulator implements lock SDK in memory.
type Simulator struct {
	mutex sync.Mutex

	logger   common.ILoggerProvider
	announce time.Duration
	duration time.Duration

	initialized bool
	status      lock.ActivationStatus
	codes       map[string]bool

	locks     map[string]*simLock
	order     []string
	accesses  []*lock.Access
	claimable []*lock.ClaimableLock

	discoveryCancel context.CancelFunc

	connected    *lock.ConnectedLock
	generation   uint64
	onDisconnect func()
	subscribers  map[uint64]chan *lock.Event
	nextSubID    uint64
}

// ConstructSimulator has data required for a new simulated SDK.
type ConstructSimulator struct {
	Logger   common.ILoggerProvider
	Settings *providers.SDKSettings
}

// NewSimulator constructs simulated SDK from configured fixtures.
func NewSimulator(ctor *ConstructSimulator) *Simulator {
	settings := ctor.Settings
	if nil == settings {
		settings = &providers.SDKSettings{}
	}

	s := &Simulator{
		logger: logger.NewSystemLogger(&logger.ConstructSystemLogger{
			Logger: ctor.Logger,
			System: logSystem,
		}),
		announce:    settings.AnnounceInterval,
		duration:    settings.OperationDuration,
		status:      lock.ActivationInactive,
		codes:       make(map[string]bool),
		locks:       make(map[string]*simLock),
		order:       make([]string, 0),
		accesses:    make([]*lock.Access, 0),
		claimable:   make([]*lock.ClaimableLock, 0),
		subscribers: make(map[uint64]chan *lock.Event),
	}

	if settings.Active {
		s.status = lock.ActivationActive
	}

	if s.announce <= 0 {
		s.announce = time.Second
	}

	for _, v := range settings.InvitationCodes {
		s.codes[v] = true
	}

	for _, v := range settings.Locks {
		if _, ok := s.locks[v.HardwareID]; !ok {
			s.order = append(s.order, v.HardwareID)
		}

		s.locks[v.HardwareID] = &simLock{name: v.Name, claimed: v.Claimed, open: v.Open}
	}

	for _, v := range settings.Accesses {
		s.accesses = append(s.accesses, &lock.Access{LockID: v.LockID, Title: v.Title})
	}

	for _, v := range settings.Claimable {
		s.claimable = append(s.claimable, &lock.ClaimableLock{ID: v.ID, Name: v.Name})
	}

	return s
}

// Initialize marks SDK as ready.
func (s *Simulator) Initialize(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.initialized = true
	s.logger.Info("Simulated SDK initialized", common.LogCountToken, strconv.Itoa(len(s.locks)))
	return nil
}

// ActivateOperatingDevice accepts any well-formed code unless codes are configured.
func (s *Simulator) ActivateOperatingDevice(ctx context.Context, code *lock.InvitationCode) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.initialized {
		return &ErrNotInitialized{}
	}

	if nil == code || (len(s.codes) > 0 && !s.codes[code.Code()]) {
		return &ErrInvalidCode{}
	}

	s.status = lock.ActivationActive
	return nil
}

// DeactivateOperatingDevice resets activation.
func (s *Simulator) DeactivateOperatingDevice(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.status = lock.ActivationInactive
	return nil
}

// GetOperatingDeviceActivationStatus returns current activation.
func (s *Simulator) GetOperatingDeviceActivationStatus(ctx context.Context) (lock.ActivationStatus, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.initialized {
		return lock.ActivationInactive, &ErrNotInitialized{}
	}

	return s.status, nil
}

// FetchAccesses returns configured and claimed accesses.
func (s *Simulator) FetchAccesses(ctx context.Context) (*lock.AccessesResult, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.checkActive(); err != nil {
		return nil, err
	}

	result := &lock.AccessesResult{Accesses: make([]*lock.Access, 0, len(s.accesses))}
	for _, v := range s.accesses {
		c := *v
		result.Accesses = append(result.Accesses, &c)
	}

	return result, nil
}

// FetchClaimableLocks returns a page of claimable placeholders.
func (s *Simulator) FetchClaimableLocks(ctx context.Context, page int, size int) ([]*lock.ClaimableLock, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.checkActive(); err != nil {
		return nil, err
	}

	result := make([]*lock.ClaimableLock, 0)
	if page < 0 || size <= 0 {
		return result, nil
	}

	for ii := page * size; ii < len(s.claimable) && len(result) < size; ii++ {
		c := *s.claimable[ii]
		result = append(result, &c)
	}

	return result, nil
}

// Claim binds placeholder to the connected lock.
func (s *Simulator) Claim(ctx context.Context, connected *lock.ConnectedLock, claimable *lock.ClaimableLock) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.checkConnected(connected); err != nil {
		return err
	}

	l := s.locks[connected.HardwareID]
	if l.claimed {
		return &ErrAlreadyClaimed{HardwareID: connected.HardwareID}
	}

	index := -1
	for ii, v := range s.claimable {
		if nil != claimable && v.ID == claimable.ID {
			index = ii
			break
		}
	}

	if -1 == index {
		id := ""
		if nil != claimable {
			id = claimable.ID
		}
		return &ErrUnknownClaimable{ID: id}
	}

	title := s.claimable[index].Name
	if "" == title {
		title = l.name
	}

	s.claimable = append(s.claimable[:index], s.claimable[index+1:]...)
	s.accesses = append(s.accesses, &lock.Access{LockID: connected.HardwareID, Title: title})
	l.claimed = true

	s.logger.Info("Lock claimed", common.LogLockIDToken, connected.HardwareID, common.LogNameToken, title)
	return nil
}

// Validates activation.
func (s *Simulator) checkActive() error {
	if !s.initialized {
		return &ErrNotInitialized{}
	}

	if lock.ActivationActive != s.status {
		return &ErrNotActivated{}
	}

	return nil
}

// Validates that lock is the connected one.
func (s *Simulator) checkConnected(connected *lock.ConnectedLock) error {
	if nil == connected {
		return &ErrNotConnected{}
	}

	if nil == s.connected || s.connected.HardwareID != connected.HardwareID {
		return &ErrNotConnected{HardwareID: connected.HardwareID}
	}

	return nil
}

var _ lock.ISDK = (*Simulator)(nil)
