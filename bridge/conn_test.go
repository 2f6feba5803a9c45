package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enclave-helpers/shared"
)

func TestParseEndpoint(t *testing.T) {
	cid, port, err := ParseEndpoint([]string{"3", "5000"})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), cid)
	assert.Equal(t, uint32(5000), port)

	cid, port, err = ParseEndpoint([]string{"4294967295", "0"})
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), cid)
	assert.Equal(t, uint32(0), port)
}

func TestParseEndpointUsageErrors(t *testing.T) {
	tests := map[string][]string{
		"NoArgs":       nil,
		"OneArg":       {"3"},
		"ThreeArgs":    {"3", "5000", "extra"},
		"NonNumericID": {"parent", "5000"},
		"NegativePort": {"3", "-1"},
		"PortOverflow": {"3", "4294967296"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseEndpoint(args)
			require.Error(t, err)
			assert.Equal(t, shared.UsageError, shared.KindOf(err))
			assert.Contains(t, err.Error(), Usage)
		})
	}
}
