//+build !release

package mocks

import (
	"github.com/go-home-io/garage/plugins/common"
)

// Fake logger, every level reports the message only.
type fakeLogger struct {
	callback func(string)
}

func (p *fakeLogger) report(msg string) {
	if nil != p.callback {
		p.callback(msg)
	}
}

func (p *fakeLogger) Debug(msg string, fields ...string) {
	p.report(msg)
}

func (p *fakeLogger) Info(msg string, fields ...string) {
	p.report(msg)
}

func (p *fakeLogger) Warn(msg string, fields ...string) {
	p.report(msg)
}

// Errors are reported with the cause.
func (p *fakeLogger) Error(msg string, err error, fields ...string) {
	if nil != err {
		msg = msg + ": " + err.Error()
	}
	p.report(msg)
}

// Fatal never exits.
func (p *fakeLogger) Fatal(msg string, err error, fields ...string) {
	p.Error(msg, err, fields...)
}

// FakeNewLogger creates a fake logger provider.
func FakeNewLogger(callback func(string)) common.ILoggerProvider {
	return &fakeLogger{
		callback: callback,
	}
}
