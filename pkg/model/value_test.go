package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	assert.Equal(t, Missing(), FromAny(nil))
	assert.Equal(t, Number(3.5), FromAny(3.5))
	assert.Equal(t, String("red"), FromAny("red"))
	assert.Equal(t, Boolean(true), FromAny(true))
}

func TestReplacedIsNotTheStringNA(t *testing.T) {
	replaced := Replaced()
	asString := String("N/A")

	assert.Equal(t, "N/A", replaced.Display())
	assert.Equal(t, "N/A", asString.Display())
	assert.False(t, replaced.Equal(asString))

	// Only the sentinel still counts as missing data
	assert.True(t, replaced.IsNullish())
	assert.False(t, asString.IsNullish())
}

func TestValueDisplay(t *testing.T) {
	assert.Equal(t, "NULL", Missing().Display())
	assert.Equal(t, "42", Number(42).Display())
	assert.Equal(t, "2.5", Number(2.5).Display())
	assert.Equal(t, "true", Boolean(true).Display())
	assert.Equal(t, "hello", String("hello").Display())
}

func TestValueFloat(t *testing.T) {
	v, ok := Number(7).Float()
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = String("7").Float()
	assert.False(t, ok)
	_, ok = Missing().Float()
	assert.False(t, ok)
}

func TestValueJSONRoundTrip(t *testing.T) {
	payload := []byte(`[null, 3.5, "blue", true, "N/A"]`)

	var values []Value
	require.NoError(t, json.Unmarshal(payload, &values))

	require.Len(t, values, 5)
	assert.Equal(t, Missing(), values[0])
	assert.Equal(t, Number(3.5), values[1])
	assert.Equal(t, String("blue"), values[2])
	assert.Equal(t, Boolean(true), values[3])
	// A genuine "N/A" string from the backend is a string, not a sentinel
	assert.Equal(t, String("N/A"), values[4])
}

func TestValueMarshalSentinels(t *testing.T) {
	missing, err := json.Marshal(Missing())
	require.NoError(t, err)
	assert.Equal(t, "null", string(missing))

	replaced, err := json.Marshal(Replaced())
	require.NoError(t, err)
	assert.Equal(t, `"N/A"`, string(replaced))
}
