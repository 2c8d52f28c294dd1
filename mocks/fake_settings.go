//+build !release

package mocks

import (
	"time"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
)

type fakeSettings struct {
	logger    common.ILoggerProvider
	cron      providers.ICronProvider
	validator providers.IValidatorProvider
	app       *providers.AppSettings
	inventory *providers.InventorySettings
	sdk       *providers.SDKSettings
	bus       *providers.MQTTSettings
	security  providers.ISecurityProvider
	fanOut    providers.IFanOutProvider
}

func (f *fakeSettings) SystemLogger() common.ILoggerProvider {
	return f.logger
}

func (f *fakeSettings) SystemLoggerFor(system string) common.ILoggerProvider {
	return f.logger
}

func (f *fakeSettings) NodeID() string {
	return "fake-node"
}

func (f *fakeSettings) Cron() providers.ICronProvider {
	return f.cron
}

func (f *fakeSettings) Validator() providers.IValidatorProvider {
	return f.validator
}

func (f *fakeSettings) AppSettings() *providers.AppSettings {
	return f.app
}

func (f *fakeSettings) InventorySettings() *providers.InventorySettings {
	return f.inventory
}

func (f *fakeSettings) SDKSettings() *providers.SDKSettings {
	return f.sdk
}

func (f *fakeSettings) BusSettings() *providers.MQTTSettings {
	return f.bus
}

func (f *fakeSettings) Security() providers.ISecurityProvider {
	return f.security
}

func (f *fakeSettings) FanOut() providers.IFanOutProvider {
	return f.fanOut
}

// FakeNewSettings creates a new fake settings provider.
// Nil security and fan-out are replaced with permissive fakes.
func FakeNewSettings(cron providers.ICronProvider, security providers.ISecurityProvider,
	fanOut providers.IFanOutProvider, logCallback func(string)) providers.ISettingsProvider {
	if nil == cron {
		cron = FakeNewCron()
	}

	if nil == security {
		security = FakeNewSecurityProvider(true, true, true)
	}

	if nil == fanOut {
		fanOut = FakeNewFanOut()
	}

	return &fakeSettings{
		logger:    FakeNewLogger(logCallback),
		cron:      cron,
		validator: FakeNewValidator(true),
		security:  security,
		fanOut:    fanOut,
		app: &providers.AppSettings{
			Name:              "garage",
			Port:              8000,
			StatusAttempts:    5,
			StatusRetryDelay:  time.Millisecond,
			ShutdownGraceTime: time.Second,
		},
		inventory: &providers.InventorySettings{
			Location:  "Remote Access",
			ClaimSize: 50,
		},
		sdk: &providers.SDKSettings{
			AnnounceInterval:  10 * time.Millisecond,
			OperationDuration: 10 * time.Millisecond,
		},
	}
}
