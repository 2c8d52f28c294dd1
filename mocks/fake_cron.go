//+build !release

package mocks

import "sync"

// FakeCron allows to invoke scheduled jobs manually.
type FakeCron struct {
	sync.Mutex

	jobs    map[int]func()
	specs   map[int]string
	nextID  int
	stopped bool
}

// AddFunc registers a job.
func (f *FakeCron) AddFunc(spec string, cmd func()) (int, error) {
	f.Lock()
	defer f.Unlock()

	f.nextID++
	f.jobs[f.nextID] = cmd
	f.specs[f.nextID] = spec
	return f.nextID, nil
}

// RemoveFunc removes a job.
func (f *FakeCron) RemoveFunc(id int) {
	f.Lock()
	defer f.Unlock()

	delete(f.jobs, id)
	delete(f.specs, id)
}

// Stop marks scheduler as stopped.
func (f *FakeCron) Stop() {
	f.Lock()
	defer f.Unlock()

	f.stopped = true
}

// Stopped reports whether Stop was called.
func (f *FakeCron) Stopped() bool {
	f.Lock()
	defer f.Unlock()

	return f.stopped
}

// Jobs returns number of registered jobs.
func (f *FakeCron) Jobs() int {
	f.Lock()
	defer f.Unlock()

	return len(f.jobs)
}

// RunAll invokes every registered job.
func (f *FakeCron) RunAll() {
	f.Lock()
	jobs := make([]func(), 0, len(f.jobs))
	for _, v := range f.jobs {
		jobs = append(jobs, v)
	}
	f.Unlock()

	for _, v := range jobs {
		v()
	}
}

// FakeNewCron creates a fake cron provider.
func FakeNewCron() *FakeCron {
	return &FakeCron{
		jobs:  make(map[int]func()),
		specs: make(map[int]string),
	}
}
