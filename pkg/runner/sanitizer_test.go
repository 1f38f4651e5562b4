package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxLineSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeInput(strings.Repeat("a", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrLineTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "seek 3", "seek 3"},
		{"Whitespace Separates", "seek\t3\r\n", "seek 3"},
		{"Collapsed Spaces", "  seek    12 ", "seek 12"},
		{"ANSI Color", "\x1b[31mnext\x1b[0m", "next"},
		{"Arrow Key", "\x1b[Dprev", "prev"},
		{"SS3 Arrow Key", "\x1bOCnext", "next"},
		{"Lone Escape", "reset\x1b", "reset"},
		{"Unterminated CSI", "next\x1b[12", "next"},
		{"Null Byte", "ne\x00xt", "next"},
		{"Bell", "prev\x07", "prev"},
		{"Unicode Kept", "séek 3", "séek 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxLineSize, "10")

	_, err := SanitizeInput("12345678901")
	assert.ErrorIs(t, err, ErrLineTooLarge)

	_, err = SanitizeInput("seek 5")
	assert.NoError(t, err)
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
