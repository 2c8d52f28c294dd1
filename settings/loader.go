// Package settings is responsible for parsing yaml-based configuration.
package settings

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/docker/docker/pkg/namesgenerator"
	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems"
	"github.com/go-home-io/garage/systems/config"
	"github.com/go-home-io/garage/systems/fanout"
	"github.com/go-home-io/garage/systems/logger"
	"github.com/go-home-io/garage/systems/security"
	"github.com/go-home-io/garage/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// Logger system.
	logSystem = "settings"
	// Name of htpasswd file inside config folder.
	usersFileName = "_users"
)

const (
	providerGarage    = "garage"
	providerSimulator = "simulator"
	providerMQTT      = "mqtt"
	providerUsers     = "users"
	providerRole      = "role"
)

// StartUpOptions defines arguments allowed by the system.
type StartUpOptions struct {
	ConfigDir string `short:"c" long:"config" description:"Config files location. Defaults to ./configs."`
	Debug     bool   `short:"d" long:"debug" description:"Print debug messages."`
}

// Defines loaded provider record.
type rawProvider struct {
	System   string
	Provider string
	Config   []byte
}

// Security config record with users.
type rawUsers struct {
	Users []*providers.SecUser `yaml:"users" validate:"dive"`
}

// System settings.
type settingsProvider struct {
	rootLogger common.ILoggerProvider
	logger     common.ILoggerProvider
	nodeID     string
	cron       providers.ICronProvider
	validator  providers.IValidatorProvider
	fanOut     providers.IFanOutProvider
	security   providers.ISecurityProvider

	app       *providers.AppSettings
	inventory *providers.InventorySettings
	sdk       *providers.SDKSettings
	bus       *providers.MQTTSettings
	users     *providers.SecuritySettings
}

// Load reads system configuration.
func Load(options *StartUpOptions) (providers.ISettingsProvider, error) {
	console := logger.NewConsoleLogger(options.Debug)
	s := &settingsProvider{
		rootLogger: console,
		logger: logger.NewSystemLogger(&logger.ConstructSystemLogger{
			Logger: console,
			System: logSystem,
		}),
		users: &providers.SecuritySettings{
			Users: make([]*providers.SecUser, 0),
			Roles: make([]*providers.SecRole, 0),
		},
	}

	s.validator = utils.NewValidator(s.logger)

	location := options.ConfigDir
	if "" == location {
		location = utils.GetDefaultConfigsDir()
	}

	configProvider := config.NewConfigProvider(&config.ConstructConfig{
		Location: location,
		Logger:   s.logger,
	})

	dataChan := configProvider.Load()
	if nil == dataChan {
		return nil, &ErrNoConfig{Location: location}
	}

	templateProvider := newTemplateProvider(s.logger)
	allProviders := make([]*rawProvider, 0)
	var loadErr error
	for fileData := range dataChan {
		provs, err := s.loadFile(fileData, templateProvider)
		if err != nil && nil == loadErr {
			loadErr = err
		}

		allProviders = append(allProviders, provs...)
	}

	if nil != loadErr {
		return nil, loadErr
	}

	for _, v := range allProviders {
		if err := s.parseProvider(v); err != nil {
			return nil, err
		}
	}

	if err := s.applyDefaults(); err != nil {
		return nil, err
	}

	s.nodeID = s.app.Name
	if "" == s.nodeID {
		s.nodeID = namesgenerator.GetRandomName(0)
		s.logger.Warn("Node name is not configured, using random one", common.LogNodeToken, s.nodeID)
	}

	s.rootLogger = logger.NewLoggerProvider(&logger.ConstructLogger{
		Logger: console,
		NodeID: s.nodeID,
	})
	s.logger = s.SystemLoggerFor(logSystem)
	s.validator.SetLogger(s.logger)

	s.cron = utils.NewCron()
	s.fanOut = fanout.NewFanOut(s.rootLogger)
	s.security = security.NewSecurityProvider(&security.ConstructSecurityProvider{
		Logger:    s.rootLogger,
		Settings:  s.users,
		UsersFile: filepath.Join(location, usersFileName),
	})

	return s, nil
}

// Processes single yaml file.
func (s *settingsProvider) loadFile(fileData []byte, templateProvider ITemplateProvider) ([]*rawProvider, error) {
	fileData, err := templateProvider.Process(fileData)
	if err != nil {
		s.logger.Error("Failed to process config template", err)
		return nil, err
	}

	provs := make([]*rawProvider, 0)
	decoder := yaml.NewDecoder(bytes.NewReader(fileData))
	for {
		var value map[string]interface{}
		err := decoder.Decode(&value)
		if err == io.EOF {
			break
		}

		if err != nil {
			s.logger.Error("Failed to parse config file", err)
			return nil, errors.Wrap(err, "failed to parse config file")
		}

		componentType := ""
		componentProvider := ""

		if cs, ok := value["system"].(string); ok {
			componentType = strings.ToLower(cs)
		}

		if ct, ok := value["provider"].(string); ok {
			componentProvider = strings.ToLower(ct)
		}

		if componentType == "" || componentProvider == "" {
			s.logger.Warn("Failed to parse a record in the config file: system or provider is not defined")
			continue
		}

		byteData, err := yaml.Marshal(value)
		if err != nil {
			s.logger.Error("Failed to parse config file", err, common.LogProviderToken, componentProvider)
			continue
		}

		provs = append(provs, &rawProvider{
			Provider: componentProvider,
			System:   componentType,
			Config:   byteData,
		})
	}

	return provs, nil
}

// Processes single provider config.
func (s *settingsProvider) parseProvider(provider *rawProvider) error {
	s.logger.Debug("Processing config", common.LogProviderToken, provider.Provider,
		common.LogFieldToken, provider.System)

	sys, err := systems.SystemTypeString(provider.System)
	if err != nil {
		s.logger.Warn("Unknown provider's system", common.LogProviderToken, provider.Provider,
			common.LogFieldToken, provider.System)
		return nil
	}

	switch sys {
	case systems.SysGoHome:
		if !s.expect(provider, providerGarage, nil != s.app) {
			return nil
		}

		s.app = &providers.AppSettings{}
		return s.unmarshal(provider, s.app)
	case systems.SysInventory:
		if !s.expect(provider, providerGarage, nil != s.inventory) {
			return nil
		}

		s.inventory = &providers.InventorySettings{}
		return s.unmarshal(provider, s.inventory)
	case systems.SysSDK:
		if !s.expect(provider, providerSimulator, nil != s.sdk) {
			return nil
		}

		s.sdk = &providers.SDKSettings{}
		return s.unmarshal(provider, s.sdk)
	case systems.SysBus:
		if !s.expect(provider, providerMQTT, nil != s.bus) {
			return nil
		}

		s.bus = &providers.MQTTSettings{}
		return s.unmarshal(provider, s.bus)
	case systems.SysSecurity:
		return s.processSecurity(provider)
	}

	return nil
}

// Checks provider name and duplicates.
func (s *settingsProvider) expect(provider *rawProvider, name string, loaded bool) bool {
	if provider.Provider != name {
		s.logger.Warn("Unknown provider, ignoring", common.LogProviderToken, provider.Provider,
			common.LogFieldToken, provider.System)
		return false
	}

	if loaded {
		s.logger.Warn("Duplicated config record, ignoring", common.LogProviderToken, provider.Provider,
			common.LogFieldToken, provider.System)
		return false
	}

	return true
}

// Processes security users and roles.
func (s *settingsProvider) processSecurity(provider *rawProvider) error {
	switch provider.Provider {
	case providerUsers:
		users := &rawUsers{}
		if err := s.unmarshal(provider, users); err != nil {
			return err
		}

		s.users.Users = append(s.users.Users, users.Users...)
	case providerRole:
		role := &providers.SecRole{}
		if err := s.unmarshal(provider, role); err != nil {
			return err
		}

		s.users.Roles = append(s.users.Roles, role)
	default:
		s.logger.Warn("Unknown security record", common.LogProviderToken, provider.Provider)
	}

	return nil
}

// Unmarshals and validates config record.
func (s *settingsProvider) unmarshal(provider *rawProvider, target interface{}) error {
	if err := yaml.Unmarshal(provider.Config, target); err != nil {
		s.logger.Error("Failed to unmarshal config", err, common.LogProviderToken, provider.Provider,
			common.LogFieldToken, provider.System)
		return &utils.ErrInvalidConfig{System: provider.System}
	}

	if !s.validator.Validate(target) {
		s.logger.Warn("Incorrect config", common.LogProviderToken, provider.Provider,
			common.LogFieldToken, provider.System)
		return &utils.ErrInvalidConfig{System: provider.System}
	}

	return nil
}

// Fills absent settings with defaults.
func (s *settingsProvider) applyDefaults() error {
	if nil == s.app {
		s.logger.Warn("Garage settings are not defined, using the default ones")
		s.app = &providers.AppSettings{}
		if !s.validator.Validate(s.app) {
			return &utils.ErrInvalidConfig{System: systems.SysGoHome.String()}
		}
	}

	if nil == s.inventory {
		s.inventory = &providers.InventorySettings{}
		if !s.validator.Validate(s.inventory) {
			return &utils.ErrInvalidConfig{System: systems.SysInventory.String()}
		}
	}

	if nil == s.sdk {
		s.logger.Warn("SDK settings are not defined, simulator has no locks")
		s.sdk = &providers.SDKSettings{}
		if !s.validator.Validate(s.sdk) {
			return &utils.ErrInvalidConfig{System: systems.SysSDK.String()}
		}
	}

	return nil
}
