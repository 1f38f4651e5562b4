package tui

import (
	"github.com/charmbracelet/glamour"
)

// ContentRenderer turns markdown into terminal output.
type ContentRenderer func(string) (string, error)

// NewRenderer returns a function that renders markdown using glamour.
// A width of 0 keeps glamour's default word wrap.
func NewRenderer(width int) ContentRenderer {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return PlainRenderer
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer returns markdown unchanged, for pipes and tests.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}
