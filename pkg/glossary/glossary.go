// Package glossary enriches a glossary JSON file with alias and hierarchy
// patches. The job is fail-fast: every entry must have a patch, and nothing is
// written unless the whole glossary was enriched.
package glossary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Entry is one glossary term.
type Entry struct {
	ID         string   `json:"id"`
	Term       string   `json:"term"`
	Definition string   `json:"definition,omitempty"`
	Category   string   `json:"category,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
	Hierarchy  []string `json:"hierarchy,omitempty"`

	// Extra holds the fields Entry does not declare. They are written back
	// unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// entryFields has Entry's fields without its methods.
type entryFields Entry

var entryKeys = map[string]bool{
	"id": true, "term": true, "definition": true,
	"category": true, "aliases": true, "hierarchy": true,
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var known entryFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	// encoding/json matches struct keys case-insensitively, so "ID" is
	// already in known.
	for k := range all {
		if entryKeys[strings.ToLower(k)] {
			delete(all, k)
		}
	}
	if len(all) > 0 {
		known.Extra = all
	}
	*e = Entry(known)
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	known, err := encode(entryFields(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return known, nil
	}
	fields := make(map[string]json.RawMessage, len(e.Extra)+len(entryKeys))
	for k, v := range e.Extra {
		fields[k] = v
	}
	var declared map[string]json.RawMessage
	if err := json.Unmarshal(known, &declared); err != nil {
		return nil, err
	}
	for k, v := range declared {
		fields[k] = v
	}
	return encode(fields)
}

// encode marshals v without HTML escaping; Sanitize keeps "&" in labels.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Patch carries the enrichment of one entry.
type Patch struct {
	Aliases   []string `json:"aliases,omitempty"`
	Hierarchy []string `json:"hierarchy,omitempty"`
}

// Batch maps entry ids to patches.
type Batch map[string]Patch

// MissingPatchError lists the glossary ids without a patch.
type MissingPatchError struct {
	IDs []string
}

func (e *MissingPatchError) Error() string {
	return fmt.Sprintf("%d glossary entries have no patch: %s", len(e.IDs), strings.Join(e.IDs, ", "))
}

func (e *MissingPatchError) Unwrap() error { return domain.ErrMissingPatch }

// Merge folds batches into one. For an id present in several batches, a later
// batch replaces each non-empty field of an earlier one.
func Merge(batches ...Batch) Batch {
	out := Batch{}
	for _, b := range batches {
		for id, p := range b {
			prev := out[id]
			if len(p.Aliases) > 0 {
				prev.Aliases = p.Aliases
			}
			if len(p.Hierarchy) > 0 {
				prev.Hierarchy = p.Hierarchy
			}
			out[id] = prev
		}
	}
	return out
}

// Enrich applies patches to entries and returns the new entries. The input
// slice is not modified. If any entry lacks a patch it returns a
// *MissingPatchError and no entries.
func Enrich(entries []Entry, patches Batch) ([]Entry, error) {
	var missing []string
	for _, e := range entries {
		if _, ok := patches[e.ID]; !ok {
			missing = append(missing, e.ID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingPatchError{IDs: missing}
	}

	out := make([]Entry, len(entries))
	for i, e := range entries {
		p := patches[e.ID]
		e.Aliases = Sanitize(append(append([]string{}, e.Aliases...), p.Aliases...))
		e.Hierarchy = Sanitize(p.Hierarchy)
		if len(e.Hierarchy) == 0 {
			e.Hierarchy = nil
		}
		if len(e.Aliases) == 0 {
			e.Aliases = nil
		}
		out[i] = e
	}
	return out, nil
}

// Sanitize cleans free-text labels: it drops characters outside the allowed
// set, collapses runs of whitespace, trims, and removes empty values and
// case-insensitive duplicates (the first spelling wins).
func Sanitize(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		clean := strings.Join(strings.Fields(strings.Map(keep, v)), " ")
		if clean == "" {
			continue
		}
		key := strings.ToLower(clean)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, clean)
	}
	return out
}

// keep maps disallowed runes to -1 and every kind of whitespace to a space.
func keep(r rune) rune {
	switch {
	case unicode.IsSpace(r):
		return ' '
	case unicode.IsLetter(r), unicode.IsDigit(r):
		return r
	case strings.ContainsRune("-_/().,+'#&", r):
		return r
	}
	return -1
}
