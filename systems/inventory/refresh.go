package inventory

import (
	"context"

	"github.com/go-home-io/garage/plugins/common"
)

// StartRefresh schedules periodic inventory reload.
func (p *projector) StartRefresh() {
	p.Lock()
	defer p.Unlock()

	if "" == p.settings.Refresh || nil == p.cron || p.refreshID >= 0 {
		return
	}

	id, err := p.cron.AddFunc(p.settings.Refresh, p.refresh)
	if err != nil {
		p.logger.Error("Failed to schedule garages refresh", err, common.LogFieldToken, p.settings.Refresh)
		return
	}

	p.refreshID = id
	p.logger.Debug("Scheduled garages refresh", common.LogFieldToken, p.settings.Refresh)
}

// StopRefresh removes periodic inventory reload.
func (p *projector) StopRefresh() {
	p.Lock()
	defer p.Unlock()

	if p.refreshID < 0 {
		return
	}

	p.cron.RemoveFunc(p.refreshID)
	p.refreshID = -1
}

// Scheduled reload.
func (p *projector) refresh() {
	p.logger.Debug("Refreshing garages")
	p.LoadGaragesAfterActivation(context.Background())
}
