package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/go-home-io/garage/plugins/common"
)

// Default console logger.
type consoleLogger struct {
	sync.Mutex

	out   io.Writer
	debug bool
	exit  func(int)
}

// Debug prints debug level message.
func (p *consoleLogger) Debug(msg string, fields ...string) {
	if !p.debug {
		return
	}

	p.output(msg, withFields(fields...), color.FgCyan)
}

// Info prints info level message.
func (p *consoleLogger) Info(msg string, fields ...string) {
	p.output(msg, withFields(fields...), color.FgGreen)
}

// Warn prints warning level message.
func (p *consoleLogger) Warn(msg string, fields ...string) {
	p.output(msg, withFields(fields...), color.FgYellow)
}

// Error prints error level message.
func (p *consoleLogger) Error(msg string, err error, fields ...string) {
	fields = append(fields, common.LogErrorToken, errorText(err))
	p.output(msg, withFields(fields...), color.FgRed)
}

// Fatal prints fatal level message and exits.
func (p *consoleLogger) Fatal(msg string, err error, fields ...string) {
	fields = append(fields, common.LogErrorToken, errorText(err))
	p.output(msg, withFields(fields...), color.FgRed)
	p.exit(1)
}

// NewConsoleLogger constructs a new console logger.
func NewConsoleLogger(debug bool) common.ILoggerProvider {
	return &consoleLogger{
		out:   os.Stdout,
		debug: debug,
		exit:  os.Exit,
	}
}

// Helper method to add generic fields to the output.
func withFields(fields ...string) map[string]string {
	fLen := len(fields)
	result := make(map[string]string, int(fLen/2))
	for ii := 0; ii < fLen; ii += 2 {
		if ii+1 >= fLen {
			break
		}

		result[fields[ii]] = fields[ii+1]
	}

	return result
}

// Prepares and prints final string.
func (p *consoleLogger) output(msg string, fields map[string]string, c color.Attribute) {
	newM := fmt.Sprintf("%s   %s", time.Now().Local().Format(time.StampMilli), msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	for _, k := range keys {
		newM = fmt.Sprintf("%s\n          %s: %s", newM, k, fields[k])
	}

	p.Lock()
	defer p.Unlock()
	msgC := color.New(c)
	//noinspection GoUnhandledErrorResult
	msgC.Fprintln(p.out, newM) // nolint: gosec
}

// Nil-safe error text.
func errorText(err error) string {
	if nil == err {
		return "<nil>"
	}

	return err.Error()
}
