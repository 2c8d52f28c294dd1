package settings

import "fmt"

// ErrNoConfig defines absent configuration.
type ErrNoConfig struct {
	Location string
}

// Error formats output.
func (e *ErrNoConfig) Error() string {
	return fmt.Sprintf("didn't get any configuration from %s", e.Location)
}
