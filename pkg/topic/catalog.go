package topic

import (
	"context"
	"fmt"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
)

// Catalog is an ordered, read-only set of topics.
type Catalog struct {
	records []Record
	byID    map[string]int
}

// NewCatalog indexes records. Later records replace earlier ones with the same
// id in place, so loaded files can override built-ins without reordering them.
func NewCatalog(records ...[]Record) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int)}
	for _, set := range records {
		for _, r := range set {
			if err := Validate(r); err != nil {
				return nil, err
			}
			if i, ok := c.byID[r.ID]; ok {
				c.records[i] = r
				continue
			}
			c.byID[r.ID] = len(c.records)
			c.records = append(c.records, r)
		}
	}
	return c, nil
}

// Load builds the catalog from the built-ins plus, when l is not nil, the
// records it loads.
func Load(ctx context.Context, l *Loader) (*Catalog, error) {
	sets := [][]Record{Builtin()}
	if l != nil {
		loaded, err := l.Load(ctx)
		if err != nil {
			return nil, err
		}
		sets = append(sets, loaded)
	}
	return NewCatalog(sets...)
}

// List returns the records in catalog order.
func (c *Catalog) List() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Get looks a topic up by id.
func (c *Catalog) Get(id string) (Record, error) {
	i, ok := c.byID[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", domain.ErrTopicNotFound, id)
	}
	return c.records[i], nil
}

// ForAlgorithm returns the topics that list kind among their algorithms.
func (c *Catalog) ForAlgorithm(kind algorithms.Kind) []Record {
	var out []Record
	for _, r := range c.records {
		for _, k := range r.Algorithms {
			if k == kind {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
