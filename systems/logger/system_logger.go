package logger

import (
	"github.com/go-home-io/garage/plugins/common"
)

// System logger implementation.
type systemLogger struct {
	logger       common.ILoggerProvider
	systemFields []string
}

// ConstructSystemLogger has data required for a new system logger.
type ConstructSystemLogger struct {
	Logger common.ILoggerProvider
	System string
}

// NewSystemLogger constructs a new system logger.
// This is another level of abstraction which adds system name
// to the actual logger.
func NewSystemLogger(ctor *ConstructSystemLogger) common.ILoggerProvider {
	return &systemLogger{
		logger:       ctor.Logger,
		systemFields: []string{common.LogSystemToken, ctor.System},
	}
}

// Debug sends debug level message.
func (l *systemLogger) Debug(msg string, fields ...string) {
	l.logger.Debug(msg, append(fields, l.systemFields...)...)
}

// Info sends info level message.
func (l *systemLogger) Info(msg string, fields ...string) {
	l.logger.Info(msg, append(fields, l.systemFields...)...)
}

// Warn sends warning level message.
func (l *systemLogger) Warn(msg string, fields ...string) {
	l.logger.Warn(msg, append(fields, l.systemFields...)...)
}

// Error sends error level message.
func (l *systemLogger) Error(msg string, err error, fields ...string) {
	l.logger.Error(msg, err, append(fields, l.systemFields...)...)
}

// Fatal sends fatal level message and exits.
func (l *systemLogger) Fatal(msg string, err error, fields ...string) {
	l.logger.Fatal(msg, err, append(fields, l.systemFields...)...)
}
