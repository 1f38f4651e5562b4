package glossary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stepwise/internal/fsutil"
	"github.com/aretw0/stepwise/internal/logging"
)

// Job enriches one glossary file from patch files.
type Job struct {
	// Glossary is the JSON array to enrich.
	Glossary string
	// Patches are JSON objects keyed by entry id, applied in order.
	Patches []string
	// Output defaults to Glossary, rewriting it in place.
	Output string
	// DryRun validates and reports without writing.
	DryRun bool

	Logger *slog.Logger
}

// Report summarizes a run.
type Report struct {
	Entries   int
	Aliases   int
	Hierarchy int
	Written   string
}

// Run reads the inputs, enriches every entry and writes the result atomically.
// On a missing patch it returns before touching the output.
func (j Job) Run(ctx context.Context) (Report, error) {
	logger := j.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	var entries []Entry
	if err := readJSON(j.Glossary, &entries); err != nil {
		return Report{}, err
	}

	batches := make([]Batch, 0, len(j.Patches))
	for _, path := range j.Patches {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		var b Batch
		if err := readJSON(path, &b); err != nil {
			return Report{}, err
		}
		logger.Debug("patch batch loaded", "path", path, "patches", len(b))
		batches = append(batches, b)
	}

	enriched, err := Enrich(entries, Merge(batches...))
	if err != nil {
		return Report{}, err
	}

	report := Report{Entries: len(enriched)}
	for _, e := range enriched {
		report.Aliases += len(e.Aliases)
		report.Hierarchy += len(e.Hierarchy)
	}

	if j.DryRun {
		logger.Info("glossary enrichment dry run", "entries", report.Entries)
		return report, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(enriched); err != nil {
		return Report{}, fmt.Errorf("failed to encode glossary: %w", err)
	}

	out := j.Output
	if out == "" {
		out = j.Glossary
	}
	if err := fsutil.WriteFileAtomic(out, buf.Bytes(), 0644); err != nil {
		return Report{}, fmt.Errorf("failed to write glossary: %w", err)
	}
	report.Written = out

	logger.Info("glossary enriched", "entries", report.Entries, "output", out)
	return report, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
