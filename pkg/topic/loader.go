package topic

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/bmatcuk/doublestar/v4"
)

// Loader reads topic records from a Loam repository of Markdown (front
// matter), JSON or YAML files. Keys are snake_case (key_points,
// exam_frequency). The Markdown body becomes Record.Notes.
type Loader struct {
	Repo    *loam.TypedRepository[Record]
	include []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithInclude keeps only documents whose id (path without extension) matches
// one of the doublestar patterns, e.g. "graphs/**".
func WithInclude(patterns ...string) LoaderOption {
	return func(l *Loader) {
		l.include = append(l.include, patterns...)
	}
}

// NewLoader creates a loader over an existing typed repository.
func NewLoader(repo *loam.TypedRepository[Record], opts ...LoaderOption) *Loader {
	l := &Loader{Repo: repo}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string, opts ...LoaderOption) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across Markdown and JSON files.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return NewLoader(loam.NewTypedRepository[Record](repo), opts...), nil
}

func (l *Loader) matches(id string) (bool, error) {
	if len(l.include) == 0 {
		return true, nil
	}
	for _, pattern := range l.include {
		ok, err := doublestar.Match(pattern, id)
		if err != nil {
			return false, fmt.Errorf("bad include pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Load lists, validates and returns every matching record sorted by id.
// Two documents resolving to the same id are an error.
func (l *Loader) Load(ctx context.Context) ([]Record, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	records := make([]Record, 0, len(docs))

	for _, doc := range docs {
		docID := trimExtension(doc.ID)
		ok, err := l.matches(docID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		// List carries front matter only; the body needs a Get.
		full, err := l.Repo.Get(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", doc.ID, err)
		}

		rec := full.Data
		if rec.ID == "" {
			rec.ID = path.Base(docID)
		}
		rec.ID = trimExtension(rec.ID)
		if body := strings.TrimSpace(full.Content); body != "" {
			rec.Notes = body
		}
		rec.Source = doc.ID

		if existing, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("collision detected: topic '%s' is defined in both '%s' and '%s'", rec.ID, existing, doc.ID)
		}
		seen[rec.ID] = doc.ID

		if err := Validate(rec); err != nil {
			return nil, fmt.Errorf("%s: %w", doc.ID, err)
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch reports the id of every topic document that changes under the
// repository until ctx is done. Events are filtered by the include patterns.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				id := trimExtension(evt.ID)
				if ok, err := l.matches(id); err != nil || !ok {
					continue
				}
				select {
				case ch <- id:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
