// Package utils contains helpers shared by go-home garage systems.
package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// TimeNow returns epoch UTC.
func TimeNow() int64 {
	return time.Now().UTC().Unix()
}

// NormalizeName converts name into a safe identifier, e.g. an MQTT topic segment.
func NormalizeName(raw string) string {
	raw = strings.ToLower(raw)
	replacer := strings.NewReplacer("%", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		";", "_",
		".", "_",
		"$", "_",
		"-", "_",
		"+", "_",
		"#", "_",
		" ", "_")
	return replacer.Replace(raw)
}

// CompileGlobs compiles case-insensitive glob patterns.
func CompileGlobs(patterns []string) ([]glob.Glob, error) {
	result := make([]glob.Glob, 0, len(patterns))
	for _, v := range patterns {
		g, err := glob.Compile(strings.ToLower(v))
		if err != nil {
			return nil, err
		}

		result = append(result, g)
	}

	return result, nil
}

// MatchAny checks whether value matches any of the globs.
func MatchAny(globs []glob.Glob, value string) bool {
	value = strings.ToLower(value)
	for _, v := range globs {
		if v.Match(value) {
			return true
		}
	}

	return false
}

// GetCurrentWorkingDir returns application working directory.
func GetCurrentWorkingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		panic("Failed to get current working dir")
	}

	return cwd
}

// GetDefaultConfigsDir returns default config directory which is cwd/configs.
func GetDefaultConfigsDir() string {
	if ConfigDir != "" {
		return ConfigDir
	}

	return fmt.Sprintf("%s/configs", GetCurrentWorkingDir())
}

// ConfigDir allows to re-write default config directory.
var ConfigDir = ""
