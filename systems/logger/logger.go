// Package logger provides go-home garage logger implementation.
package logger

import (
	"github.com/go-home-io/garage/plugins/common"
)

// Logger provider wrapper implementation.
type provider struct {
	logger common.ILoggerProvider
	nodeID string
}

// ConstructLogger has data required for a new logger.
type ConstructLogger struct {
	Logger common.ILoggerProvider
	NodeID string
}

// NewLoggerProvider constructs a new logger which tags every message with the garage node ID.
func NewLoggerProvider(ctor *ConstructLogger) common.ILoggerProvider {
	return &provider{
		logger: ctor.Logger,
		nodeID: ctor.NodeID,
	}
}

// Debug sends debug level message.
func (p *provider) Debug(msg string, fields ...string) {
	p.logger.Debug(msg, p.prepareFields(fields...)...)
}

// Info sends info level message.
func (p *provider) Info(msg string, fields ...string) {
	p.logger.Info(msg, p.prepareFields(fields...)...)
}

// Warn sends warning level message.
func (p *provider) Warn(msg string, fields ...string) {
	p.logger.Warn(msg, p.prepareFields(fields...)...)
}

// Error sends error level message.
func (p *provider) Error(msg string, err error, fields ...string) {
	p.logger.Error(msg, err, p.prepareFields(fields...)...)
}

// Fatal sends fatal level message and exits.
func (p *provider) Fatal(msg string, err error, fields ...string) {
	p.logger.Fatal(msg, err, p.prepareFields(fields...)...)
}

// Extending logger fields with current node ID.
// Node field is omitted until node ID is known.
func (p *provider) prepareFields(fields ...string) []string {
	if "" == p.nodeID {
		return fields
	}

	return append(fields, common.LogNodeToken, p.nodeID)
}
