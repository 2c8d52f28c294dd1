package lock

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests invitation code validation.
func TestInvitationCode(t *testing.T) {
	data := []struct {
		in    string
		valid bool
	}{
		{"ABC-123", true},
		{"  ABC-123 ", true},
		{"", false},
		{"   ", false},
		{"ABC 123", false},
	}

	for _, v := range data {
		code, err := NewInvitationCode(v.in)
		if v.valid {
			require.NoError(t, err, v.in)
			assert.NotContains(t, code.Code(), " ", v.in)
		} else {
			assert.Error(t, err, v.in)
		}
	}
}

// Tests operation state text conversions.
func TestOperationStateText(t *testing.T) {
	for k, v := range operationStateNames {
		parsed, err := OperationStateString(v)
		require.NoError(t, err, v)
		assert.Equal(t, k, parsed, v)
	}

	_, err := OperationStateString("wrong")
	assert.Error(t, err)

	d, err := json.Marshal(struct {
		S OperationState `json:"s"`
	}{S: OpJammed})
	require.NoError(t, err)
	assert.Equal(t, `{"s":"jammed"}`, string(d))
	assert.Equal(t, "Jammed!", OpJammed.DisplayText())
}

// Tests activation status parsing.
func TestActivationStatusString(t *testing.T) {
	for _, v := range []ActivationStatus{ActivationInactive, ActivationActivating, ActivationActive} {
		parsed, err := ActivationStatusString(v.String())
		require.NoError(t, err, v.String())
		assert.Equal(t, v, parsed)
	}

	assert.Equal(t, "ActivationStatus(42)", ActivationStatus(42).String())
}

// Tests lock display name.
func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Unnamed Lock", (&DiscoveredLock{HardwareID: "1"}).DisplayName())
	assert.Equal(t, "Door", (&DiscoveredLock{HardwareID: "1", Name: "Door"}).DisplayName())
}
