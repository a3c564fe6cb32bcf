package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressRoundTrip(t *testing.T) {
	orig := AddressOf([]byte("round-trip"))

	parsed, err := Parse(orig.String())
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse("not!base58!!")
	assert.Error(t, err)

	// Valid base58 but the wrong length.
	_, err = Parse("3yZe7d")
	assert.Error(t, err)
}

func TestParseEmptyIsZero(t *testing.T) {
	addr, err := Parse("")
	require.NoError(t, err)
	assert.True(t, addr.IsZero())
}

func TestAddressJSON(t *testing.T) {
	orig := AddressOf([]byte("json"))

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, orig, decoded)
}

func TestShortAbbreviates(t *testing.T) {
	addr := AddressOf([]byte("short"))
	short := addr.Short()
	assert.Len(t, []rune(short), 9)
	assert.NotEqual(t, addr.String(), short)
}
