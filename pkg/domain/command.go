package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandType names a cursor navigation.
type CommandType string

const (
	CommandNext  CommandType = "next"
	CommandPrev  CommandType = "prev"
	CommandSeek  CommandType = "seek"
	CommandReset CommandType = "reset"
)

// Command is a reducer-style navigation request applied to a cursor.
// Index is only meaningful for CommandSeek.
type Command struct {
	Type  CommandType `json:"command" mapstructure:"command"`
	Index int         `json:"index,omitempty" mapstructure:"index"`
}

// Next builds a forward command.
func Next() Command { return Command{Type: CommandNext} }

// Prev builds a backward command.
func Prev() Command { return Command{Type: CommandPrev} }

// Reset builds a rewind-to-start command.
func Reset() Command { return Command{Type: CommandReset} }

// Seek builds a jump command; the cursor clamps i into range.
func Seek(i int) Command { return Command{Type: CommandSeek, Index: i} }

func (c Command) String() string {
	if c.Type == CommandSeek {
		return fmt.Sprintf("seek %d", c.Index)
	}
	return string(c.Type)
}

// ParseCommand reads the short textual form used by the REPL and the HTTP API:
// "next" (n), "prev" (p), "reset" (r) and "seek <i>" (s <i>, or a bare integer).
func ParseCommand(text string) (Command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty", ErrUnknownCommand)
	}

	switch fields[0] {
	case "next", "n", "forward", "f":
		return Next(), nil
	case "prev", "p", "back", "b":
		return Prev(), nil
	case "reset", "r", "home":
		return Reset(), nil
	case "seek", "s", "goto", "g":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: seek requires an index", ErrUnknownCommand)
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: seek index %q is not an integer", ErrUnknownCommand, fields[1])
		}
		return Seek(i), nil
	}

	if i, err := strconv.Atoi(fields[0]); err == nil && len(fields) == 1 {
		return Seek(i), nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}
