package bus

import "fmt"

// ErrConnectionTimeout defines broker timeout error.
type ErrConnectionTimeout struct {
	Broker string
}

// Error formats output.
func (e *ErrConnectionTimeout) Error() string {
	return fmt.Sprintf("timeout while connecting to %s", e.Broker)
}

// ErrPublishTimeout defines publish timeout error.
type ErrPublishTimeout struct {
	Topic string
}

// Error formats output.
func (e *ErrPublishTimeout) Error() string {
	return fmt.Sprintf("timeout while publishing to %s", e.Topic)
}

// ErrNotConnected defines absent broker connection.
type ErrNotConnected struct {
}

// Error formats output.
func (*ErrNotConnected) Error() string {
	return "bus is not connected"
}
