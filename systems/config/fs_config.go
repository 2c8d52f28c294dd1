// Package config contains file system config loader.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/utils"
)

// IConfigProvider provides capabilities for loading system configuration.
type IConfigProvider interface {
	Load() chan []byte
}

// Default file system config loader.
type fsConfig struct {
	location string
	logger   common.ILoggerProvider
}

// ConstructConfig contains data required for a new config provider.
type ConstructConfig struct {
	Location string
	Logger   common.ILoggerProvider
}

// NewConfigProvider constructs a new file system config provider.
func NewConfigProvider(ctor *ConstructConfig) IConfigProvider {
	loc := ctor.Location
	if "" == loc {
		loc = utils.GetDefaultConfigsDir()
		ctor.Logger.Info("Using default location", common.LogFileToken, loc)
	}

	return &fsConfig{
		location: loc,
		logger:   ctor.Logger,
	}
}

// Load files from local file system.
func (c *fsConfig) Load() chan []byte {
	fileList := make([]string, 0)
	fError := filepath.Walk(c.location, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			c.logger.Warn("Failed get folder files", common.LogFileToken, path)
			return err
		}
		if f.IsDir() {
			return nil
		}
		fileList = append(fileList, path)
		return nil
	})

	if fError != nil {
		c.logger.Error("Failed to walk through files", fError)
		return nil
	}

	filesChan := make(chan []byte)

	go func() {
		for _, v := range fileList {
			if !IsValidConfigFileName(v) {
				continue
			}

			fileData, err := ioutil.ReadFile(v)
			if err != nil {
				c.logger.Error("Failed to read config file", err, common.LogFileToken, v)
				continue
			}

			c.logger.Info("Processing config file", common.LogFileToken, v)
			filesChan <- fileData
		}

		close(filesChan)
	}()

	return filesChan
}

// IsValidConfigFileName checks whether config file name is valid.
// Files starting with underscore are ignored.
func IsValidConfigFileName(name string) bool {
	name = filepath.Base(name)

	if "" == name || name[0] == '_' {
		return false
	}

	name = filepath.Ext(name)
	return name == ".yaml" || name == ".yml"
}
