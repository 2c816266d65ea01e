package keysim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyNamed(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"shift", KeyShift},
		{"Shift", KeyShift},
		{"ctrl", KeyControl},
		{"control", KeyControl},
		{"CONTROL", KeyControl},
		{"alt", KeyAlt},
		{"esc", KeyEscape},
		{"escape", KeyEscape},
		{"space", Layout(' ')},
	}
	for _, tc := range tests {
		got, err := ParseKey(tc.in)
		require.NoError(t, err, "ParseKey(%q)", tc.in)
		assert.Equal(t, tc.want, got, "ParseKey(%q)", tc.in)
	}
}

func TestParseKeyLayout(t *testing.T) {
	k, err := ParseKey("t")
	require.NoError(t, err)
	assert.Equal(t, Layout('t'), k)
	assert.False(t, k.IsModifier())

	k, err = ParseKey(",")
	require.NoError(t, err)
	assert.Equal(t, Layout(','), k)
}

func TestParseKeyRejectsUnknownNames(t *testing.T) {
	for _, in := range []string{"", "f12", "meta", "enterr"} {
		_, err := ParseKey(in)
		assert.Error(t, err, "ParseKey(%q)", in)
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "control", KeyControl.String())
	assert.Equal(t, "escape", KeyEscape.String())
	assert.Equal(t, "space", Layout(' ').String())
	assert.Equal(t, "g", Layout('g').String())
}

func TestModifiersAreModifiers(t *testing.T) {
	for _, m := range Modifiers() {
		assert.True(t, m.IsModifier(), "%s", m)
	}
	assert.False(t, KeyEscape.IsModifier())
}
