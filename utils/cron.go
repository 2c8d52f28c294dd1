package utils

import (
	"github.com/go-home-io/garage/providers"
	"gopkg.in/robfig/cron.v2"
)

// Cron implementation.
type provider struct {
	cron *cron.Cron
}

// NewCron creates a new scheduler.
func NewCron() providers.ICronProvider {
	p := provider{
		cron: cron.New(),
	}

	p.cron.Start()
	return &p
}

// AddFunc schedules a new job.
func (p *provider) AddFunc(spec string, cmd func()) (int, error) {
	id, err := p.cron.AddFunc(spec, cmd)
	return int(id), err
}

// RemoveFunc removes scheduled job from cron.
func (p *provider) RemoveFunc(id int) {
	p.cron.Remove(cron.EntryID(id))
}

// Stop stops the scheduler, running jobs are not interrupted.
func (p *provider) Stop() {
	p.cron.Stop()
}

// IsValidCronSpec checks whether spec could be scheduled.
func IsValidCronSpec(spec string) bool {
	_, err := cron.Parse(spec)
	return nil == err
}
