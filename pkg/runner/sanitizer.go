package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxLineSize bounds a single command line.
	DefaultMaxLineSize = 128
	// EnvMaxLineSize is the environment variable to override the default.
	EnvMaxLineSize = "STEPWISE_MAX_LINE_SIZE"
)

var (
	ErrLineTooLarge = errors.New("command line too long")
	ErrInvalidUTF8  = errors.New("command contains invalid UTF-8 sequences")
)

// SanitizeInput turns one raw line into the normalized text ParseCommand
// expects: terminal escape sequences (arrow keys, colors) and other control
// characters are dropped, tabs and line breaks separate words, and runs of
// whitespace collapse to one space.
func SanitizeInput(input string) (string, error) {
	limit := maxLineSize()
	if len(input) > limit {
		// Reject rather than truncate: a truncated "seek 12" is a different command.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrLineTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case r == '\x1b':
			i += escapeLen(input[i:])
			continue
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
		i += size
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// escapeLen returns the length of the escape sequence at the start of s:
// CSI ("\x1b[" params final) and SS3 ("\x1bO" key). A lone ESC is one byte.
func escapeLen(s string) int {
	if len(s) < 2 {
		return 1
	}
	switch s[1] {
	case '[':
		for j := 2; j < len(s); j++ {
			if s[j] >= 0x40 && s[j] <= 0x7e {
				return j + 1
			}
		}
		return len(s)
	case 'O':
		if len(s) >= 3 {
			return 3
		}
		return len(s)
	}
	return 1
}

func maxLineSize() int {
	if val := os.Getenv(EnvMaxLineSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxLineSize
}
