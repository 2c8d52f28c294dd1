package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-home-io/garage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests correct loading.
func TestFSConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "garage_config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	files := map[string]string{
		"data.yaml":  "test",
		"_data.yaml": "test1",
		"data.txt":   "test2",
	}
	for k, v := range files {
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, k), []byte(v), os.ModePerm))
	}

	c := NewConfigProvider(&ConstructConfig{
		Location: dir,
		Logger:   mocks.FakeNewLogger(nil),
	})

	loaded := make([]string, 0)
	for d := range c.Load() {
		loaded = append(loaded, string(d))
	}

	assert.Equal(t, []string{"test"}, loaded)
}

// Tests missing location.
func TestFSConfigMissingDir(t *testing.T) {
	c := NewConfigProvider(&ConstructConfig{
		Location: "./does-not-exist",
		Logger:   mocks.FakeNewLogger(nil),
	})

	assert.Nil(t, c.Load())
}

// Tests config file name filter.
func TestCorrectNames(t *testing.T) {
	names := []string{"1-2-3.yaml", "тест7.yaml", "-data.yml", "test.data.yaml"}

	for _, v := range names {
		assert.True(t, IsValidConfigFileName(v), v)
	}
}

// Tests config file name filter.
func TestIncorrectNames(t *testing.T) {
	names := []string{"__", ".", "123.data", "test.yaml.data", "_data.yaml"}

	for _, v := range names {
		assert.False(t, IsValidConfigFileName(v), v)
	}
}
