//+build !release

package mocks

import (
	"context"
	"sync"

	"github.com/go-home-io/garage/plugins/lock"
)

type fakeStatus struct {
	status lock.ActivationStatus
	err    error
}

// FakeSDK is a scriptable lock SDK.
// Exported fields must be set before the fake is shared with other goroutines,
// use Set for changes at runtime.
type FakeSDK struct {
	mutex sync.Mutex
	calls map[string]int

	statuses  []*fakeStatus
	callbacks []func()

	InitErr       error
	ActivateErr   error
	DeactivateErr error
	AccessesErr   error
	ConnectErr    error
	DisconnectErr error
	LockErr       error
	UnlockErr     error
	ClaimErr      error
	ClaimableErr  error

	// ActivatedStatus is reported after successful activation.
	ActivatedStatus lock.ActivationStatus

	// ConnectGate blocks Connect until closed.
	ConnectGate chan struct{}
	// AccessesGate blocks FetchAccesses until closed, context is ignored.
	AccessesGate chan struct{}

	Accesses  []*lock.Access
	Claimable []*lock.ClaimableLock
	Claimed   []*lock.ClaimableLock

	Discovery  chan *lock.DiscoveryEvent
	LockEvents chan *lock.Event
}

// FakeNewSDK creates a new fake SDK, reporting inactive device.
func FakeNewSDK() *FakeSDK {
	return &FakeSDK{
		calls:           make(map[string]int),
		ActivatedStatus: lock.ActivationActive,
		statuses:        make([]*fakeStatus, 0),
		callbacks:       make([]func(), 0),
		Accesses:        make([]*lock.Access, 0),
		Claimable:       make([]*lock.ClaimableLock, 0),
		Claimed:         make([]*lock.ClaimableLock, 0),
		Discovery:       make(chan *lock.DiscoveryEvent, 100),
		LockEvents:      make(chan *lock.Event, 100),
	}
}

// Set applies changes under the fake's lock.
func (f *FakeSDK) Set(fn func(f *FakeSDK)) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	fn(f)
}

// AddStatus queues activation status response.
// The last queued response is repeated once the queue is exhausted.
func (f *FakeSDK) AddStatus(status lock.ActivationStatus, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.statuses = append(f.statuses, &fakeStatus{status: status, err: err})
}

// Calls returns number of invocations of the method.
func (f *FakeSDK) Calls(method string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.calls[method]
}

// DropConnection invokes the latest unexpected disconnect callback.
func (f *FakeSDK) DropConnection() bool {
	f.mutex.Lock()
	index := len(f.callbacks) - 1
	f.mutex.Unlock()

	return f.DropConnectionAt(index)
}

// DropConnectionAt invokes unexpected disconnect callback of the n-th connect call.
func (f *FakeSDK) DropConnectionAt(index int) bool {
	f.mutex.Lock()
	if index < 0 || index >= len(f.callbacks) {
		f.mutex.Unlock()
		return false
	}
	cb := f.callbacks[index]
	f.mutex.Unlock()

	cb()
	return true
}

func (f *FakeSDK) errFor(method string, get func() error) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls[method]++
	return get()
}

// Initialize fakes SDK initialization.
func (f *FakeSDK) Initialize(ctx context.Context) error {
	return f.errFor("Initialize", func() error { return f.InitErr })
}

// ActivateOperatingDevice fakes device activation.
// Successful activation switches status to ActivatedStatus.
func (f *FakeSDK) ActivateOperatingDevice(ctx context.Context, code *lock.InvitationCode) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls["ActivateOperatingDevice"]++
	if nil != f.ActivateErr {
		return f.ActivateErr
	}

	f.statuses = []*fakeStatus{{status: f.ActivatedStatus}}
	return nil
}

// DeactivateOperatingDevice fakes device deactivation.
func (f *FakeSDK) DeactivateOperatingDevice(ctx context.Context) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls["DeactivateOperatingDevice"]++
	if nil != f.DeactivateErr {
		return f.DeactivateErr
	}

	f.statuses = []*fakeStatus{{status: lock.ActivationInactive}}
	return nil
}

// GetOperatingDeviceActivationStatus returns queued status.
func (f *FakeSDK) GetOperatingDeviceActivationStatus(ctx context.Context) (lock.ActivationStatus, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls["GetOperatingDeviceActivationStatus"]++
	if 0 == len(f.statuses) {
		return lock.ActivationInactive, nil
	}

	st := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}

	return st.status, st.err
}

// FetchAccesses returns configured accesses.
func (f *FakeSDK) FetchAccesses(ctx context.Context) (*lock.AccessesResult, error) {
	f.mutex.Lock()
	f.calls["FetchAccesses"]++
	gate := f.AccessesGate
	f.mutex.Unlock()

	if nil != gate {
		<-gate
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if nil != f.AccessesErr {
		return nil, f.AccessesErr
	}

	return &lock.AccessesResult{Accesses: f.Accesses}, nil
}

// StartLockDiscovery returns discovery channel.
func (f *FakeSDK) StartLockDiscovery(ctx context.Context) <-chan *lock.DiscoveryEvent {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls["StartLockDiscovery"]++
	return f.Discovery
}

// StopLockDiscovery records the call.
func (f *FakeSDK) StopLockDiscovery() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls["StopLockDiscovery"]++
}

// Connect fakes connection to the lock.
func (f *FakeSDK) Connect(ctx context.Context, device *lock.DiscoveredLock,
	onUnexpectedDisconnect func()) (*lock.ConnectedLock, error) {
	f.mutex.Lock()
	f.calls["Connect"]++
	f.callbacks = append(f.callbacks, onUnexpectedDisconnect)
	gate := f.ConnectGate
	f.mutex.Unlock()

	if nil != gate {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if nil != f.ConnectErr {
		return nil, f.ConnectErr
	}

	return &lock.ConnectedLock{HardwareID: device.HardwareID}, nil
}

// DisconnectFromLock fakes disconnect.
func (f *FakeSDK) DisconnectFromLock(ctx context.Context) error {
	return f.errFor("DisconnectFromLock", func() error { return f.DisconnectErr })
}

// Lock fakes lock command.
func (f *FakeSDK) Lock(ctx context.Context, connected *lock.ConnectedLock) error {
	return f.errFor("Lock", func() error { return f.LockErr })
}

// Unlock fakes unlock command.
func (f *FakeSDK) Unlock(ctx context.Context, connected *lock.ConnectedLock) error {
	return f.errFor("Unlock", func() error { return f.UnlockErr })
}

// GetLockEvents returns lock events channel.
func (f *FakeSDK) GetLockEvents(ctx context.Context) <-chan *lock.Event {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls["GetLockEvents"]++
	return f.LockEvents
}

// FetchClaimableLocks returns configured placeholders.
func (f *FakeSDK) FetchClaimableLocks(ctx context.Context, page int, size int) ([]*lock.ClaimableLock, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls["FetchClaimableLocks"]++
	if nil != f.ClaimableErr {
		return nil, f.ClaimableErr
	}

	return f.Claimable, nil
}

// Claim records claimed placeholder.
func (f *FakeSDK) Claim(ctx context.Context, connected *lock.ConnectedLock, claimable *lock.ClaimableLock) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls["Claim"]++
	if nil != f.ClaimErr {
		return f.ClaimErr
	}

	f.Claimed = append(f.Claimed, claimable)
	return nil
}
