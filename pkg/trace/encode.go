package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (expected json or yaml)", s)
}

// Encode writes v (usually a *Trace) to w.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// WriteFile exports v to path. A ".zst" suffix enables zstd compression, and
// the remaining extension picks the format unless format is set explicitly.
func WriteFile(path string, v any, format Format) (err error) {
	compressed := strings.HasSuffix(path, ".zst")
	if format == "" {
		format = FormatJSON
		ext := filepath.Ext(strings.TrimSuffix(path, ".zst"))
		if f, perr := ParseFormat(strings.TrimPrefix(ext, ".")); perr == nil {
			format = f
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if compressed {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to init zstd: %w", err)
		}
		defer func() {
			if cerr := zw.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = zw
	}
	return Encode(w, v, format)
}

// ReadJSON decodes a (possibly zstd-compressed) JSON export into a generic document.
// It is meant for inspection tooling; states come back as maps.
func ReadJSON(r io.Reader, compressed bool) (map[string]any, error) {
	if compressed {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to init zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode trace: %w", err)
	}
	return doc, nil
}
