package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"next", Next()},
		{" N ", Next()},
		{"prev", Prev()},
		{"b", Prev()},
		{"reset", Reset()},
		{"seek 4", Seek(4)},
		{"s -2", Seek(-2)},
		{"7", Seek(7)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Invalid(t *testing.T) {
	for _, in := range []string{"", "jump", "seek", "seek x", "seek 1 2"} {
		_, err := ParseCommand(in)
		assert.ErrorIs(t, err, ErrUnknownCommand, "input %q", in)
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "seek 3", Seek(3).String())
	assert.Equal(t, "next", Next().String())
}
