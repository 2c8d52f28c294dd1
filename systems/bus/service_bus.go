// Package bus contains MQTT state bus.
package bus

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/logger"
	"github.com/pkg/errors"
)

const (
	// Logs representation.
	logSystem = "service_bus"

	statusOnline  = "online"
	statusOffline = "offline"
)

// ConstructBus holds values required for a new service bus provider.
type ConstructBus struct {
	Settings *providers.MQTTSettings
	Logger   common.ILoggerProvider
	NodeID   string
}

// MQTT service bus provider.
type provider struct {
	client   mqtt.Client
	logger   common.ILoggerProvider
	settings *providers.MQTTSettings
}

// NewServiceBusProvider connects to the MQTT broker.
// Node availability is published retained to <prefix>/status.
func NewServiceBusProvider(ctor *ConstructBus) (providers.IBusProvider, error) {
	p := &provider{
		settings: ctor.Settings,
		logger: logger.NewSystemLogger(&logger.ConstructSystemLogger{
			Logger: ctor.Logger,
			System: logSystem,
		}),
	}

	clientID := ctor.Settings.ClientID
	if "" == clientID {
		clientID = "garage-" + ctor.NodeID
	}

	status := StatusTopic(ctor.Settings.Prefix)
	opts := mqtt.NewClientOptions().
		AddBroker(ctor.Settings.Broker).
		SetClientID(clientID).
		SetUsername(ctor.Settings.Username).
		SetPassword(ctor.Settings.Password).
		SetConnectTimeout(ctor.Settings.Timeout).
		SetAutoReconnect(true).
		SetWill(status, statusOffline, ctor.Settings.QoS, true)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		p.logger.Info("Connected to the broker", common.LogURLToken, ctor.Settings.Broker)
		c.Publish(status, ctor.Settings.QoS, true, statusOnline)
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.logger.Error("Lost broker connection", err, common.LogURLToken, ctor.Settings.Broker)
	})

	p.client = mqtt.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(ctor.Settings.Timeout) {
		return nil, &ErrConnectionTimeout{Broker: ctor.Settings.Broker}
	}

	if err := token.Error(); err != nil {
		return nil, errors.Wrap(err, "mqtt connect failed")
	}

	return p, nil
}

// Publish sends retained message.
func (p *provider) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.settings.QoS, true, payload)
	if !token.WaitTimeout(p.settings.Timeout) {
		return &ErrPublishTimeout{Topic: topic}
	}

	return token.Error()
}

// Ping allows to validate whether service bus is available.
func (p *provider) Ping() error {
	if !p.client.IsConnectionOpen() {
		return &ErrNotConnected{}
	}

	return nil
}

// Close marks node as offline and disconnects.
func (p *provider) Close() {
	if p.client.IsConnectionOpen() {
		token := p.client.Publish(StatusTopic(p.settings.Prefix), p.settings.QoS, true, statusOffline)
		token.WaitTimeout(p.settings.Timeout)
	}

	p.client.Disconnect(250)
}
