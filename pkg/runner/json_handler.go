package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// JSONHandler implements IOHandler with JSON-Lines: one frame or message per
// output line, one command per input line.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// Message is the envelope of SystemOutput lines.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type frameLine struct {
	Type string `json:"type"`
	Frame
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, frame Frame) error {
	frame.Text = ""
	return h.Encoder.Encode(frameLine{Type: "step", Frame: frame})
}

// Input accepts a JSON string ("next"), a command object
// ({"command":"seek","index":3}) or plain text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return SanitizeInput(val)
	}
	var cmd domain.Command
	if err := json.Unmarshal([]byte(text), &cmd); err == nil && cmd.Type != "" {
		return cmd.String(), nil
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: "system", Message: msg})
}
