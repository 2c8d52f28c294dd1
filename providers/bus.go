// Package providers contains interfaces for internal system providers.
package providers

// IBusProvider defines state bus provider logic.
type IBusProvider interface {
	Publish(topic string, payload []byte) error
	Ping() error
	Close()
}
