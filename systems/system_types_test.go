package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests system names.
func TestSystemTypeString(t *testing.T) {
	for _, v := range []SystemType{SysGoHome, SysInventory, SysSDK, SysBus, SysSecurity} {
		parsed, err := SystemTypeString(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}

	parsed, err := SystemTypeString("Go-Home")
	require.NoError(t, err)
	assert.Equal(t, SysGoHome, parsed)

	_, err = SystemTypeString("device")
	assert.Error(t, err)
	assert.Equal(t, "SystemType(42)", SystemType(42).String())
}
