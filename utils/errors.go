package utils

// ErrInvalidConfig defines wrong configuration error.
type ErrInvalidConfig struct {
	System string
}

// Error formats output.
func (e *ErrInvalidConfig) Error() string {
	if "" == e.System {
		return "config validation error"
	}

	return "config validation error: " + e.System
}
