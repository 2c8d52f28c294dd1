package providers

import (
	"time"

	"github.com/go-home-io/garage/plugins/common"
)

// ISettingsProvider defines settings loader provider logic.
type ISettingsProvider interface {
	SystemLogger() common.ILoggerProvider
	SystemLoggerFor(system string) common.ILoggerProvider
	NodeID() string
	Cron() ICronProvider
	Validator() IValidatorProvider
	AppSettings() *AppSettings
	InventorySettings() *InventorySettings
	SDKSettings() *SDKSettings
	BusSettings() *MQTTSettings
	Security() ISecurityProvider
	FanOut() IFanOutProvider
}

// AppSettings has configured data for the garage node.
type AppSettings struct {
	Name              string        `yaml:"name"`
	Port              int           `yaml:"port" validate:"required,port" default:"8000"`
	ManualScan        bool          `yaml:"manualScan"`
	StatusAttempts    int           `yaml:"statusAttempts" validate:"gte=1,lte=100" default:"5"`
	StatusRetryDelay  time.Duration `yaml:"statusRetryDelay" validate:"gte=0" default:"1s"`
	AllowedOrigins    []string      `yaml:"allowedOrigins"`
	ShutdownGraceTime time.Duration `yaml:"shutdownGraceTime" validate:"gte=0" default:"5s"`
}

// InventorySettings has configured data for the garage inventory.
type InventorySettings struct {
	SkipDemoFallback bool   `yaml:"skipDemoFallback"`
	Location         string `yaml:"location" default:"Remote Access"`
	Refresh          string `yaml:"refresh" validate:"cronspec"`
	ClaimPage        int    `yaml:"claimPage" validate:"gte=0"`
	ClaimSize        int    `yaml:"claimSize" validate:"gte=1,lte=500" default:"50"`
}

// SDKLock has data describing a simulated physical lock.
type SDKLock struct {
	HardwareID string `yaml:"hardwareId" validate:"required"`
	Name       string `yaml:"name"`
	Claimed    bool   `yaml:"claimed"`
	Open       bool   `yaml:"open"`
}

// SDKAccess has data describing a simulated access record.
type SDKAccess struct {
	LockID string `yaml:"lockId" validate:"required"`
	Title  string `yaml:"title"`
}

// SDKClaimable has data describing a simulated claimable placeholder.
type SDKClaimable struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name"`
}

// SDKSettings has configured data for the simulated lock SDK.
type SDKSettings struct {
	Active            bool            `yaml:"active"`
	InvitationCodes   []string        `yaml:"invitationCodes"`
	Locks             []*SDKLock      `yaml:"locks" validate:"dive"`
	Accesses          []*SDKAccess    `yaml:"accesses" validate:"dive"`
	Claimable         []*SDKClaimable `yaml:"claimable" validate:"dive"`
	AnnounceInterval  time.Duration   `yaml:"announceInterval" validate:"gte=0" default:"1s"`
	OperationDuration time.Duration   `yaml:"operationDuration" validate:"gte=0" default:"2s"`
}

// MQTTSettings has configured data for the MQTT state bus.
type MQTTSettings struct {
	Broker   string        `yaml:"broker" validate:"required"`
	ClientID string        `yaml:"clientId"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Prefix   string        `yaml:"prefix" default:"go-home/garage"`
	QoS      byte          `yaml:"qos" validate:"lte=2"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0" default:"10s"`
}
