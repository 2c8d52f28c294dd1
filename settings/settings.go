package settings

import (
	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/logger"
)

// SystemLogger returns default system logger.
func (s *settingsProvider) SystemLogger() common.ILoggerProvider {
	return s.rootLogger
}

// SystemLoggerFor returns logger which adds system name.
func (s *settingsProvider) SystemLoggerFor(system string) common.ILoggerProvider {
	return logger.NewSystemLogger(&logger.ConstructSystemLogger{
		Logger: s.rootLogger,
		System: system,
	})
}

// NodeID returns current instance node ID.
func (s *settingsProvider) NodeID() string {
	return s.nodeID
}

// Cron returns system's cron provider.
func (s *settingsProvider) Cron() providers.ICronProvider {
	return s.cron
}

// Validator returns yaml validator provider.
func (s *settingsProvider) Validator() providers.IValidatorProvider {
	return s.validator
}

// AppSettings returns garage node settings.
func (s *settingsProvider) AppSettings() *providers.AppSettings {
	return s.app
}

// InventorySettings returns inventory settings.
func (s *settingsProvider) InventorySettings() *providers.InventorySettings {
	return s.inventory
}

// SDKSettings returns simulated SDK settings.
func (s *settingsProvider) SDKSettings() *providers.SDKSettings {
	return s.sdk
}

// BusSettings returns MQTT settings or nil if bus is not configured.
func (s *settingsProvider) BusSettings() *providers.MQTTSettings {
	return s.bus
}

// Security returns a security provider.
func (s *settingsProvider) Security() providers.ISecurityProvider {
	return s.security
}

// FanOut returns state fan-out.
func (s *settingsProvider) FanOut() providers.IFanOutProvider {
	return s.fanOut
}
