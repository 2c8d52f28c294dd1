package settings

import (
	"bytes"
	"os"
	"text/template"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/pkg/errors"
)

// ITemplateProvider defines template logic.
type ITemplateProvider interface {
	Process([]byte) ([]byte, error)
}

// Template engine provider.
type provider struct {
	logger    common.ILoggerProvider
	functions template.FuncMap
}

// Constructs a new template engine.
func newTemplateProvider(logger common.ILoggerProvider) *provider {
	provider := &provider{
		logger: logger,
	}

	provider.functions = template.FuncMap{
		"env": provider.getEnvVariable,
	}

	return provider
}

// Process applies template functions to the config file,
// which allows reading from environment variables.
func (p *provider) Process(rawFile []byte) ([]byte, error) {
	tpl, err := template.New("garage").Funcs(p.functions).Parse(string(rawFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse template")
	}

	b := bytes.Buffer{}
	if err := tpl.Execute(&b, nil); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}

	return b.Bytes(), nil
}

// Returns environment variable.
func (p *provider) getEnvVariable(name string) string {
	p.logger.Debug("Template is requesting environment variable", common.LogNameToken, name)
	return os.Getenv(name)
}
