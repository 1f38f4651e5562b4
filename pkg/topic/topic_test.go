package topic_test

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/stepwise/internal/testutils"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/topic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_AllValid(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range topic.Builtin() {
		assert.NoError(t, topic.Validate(r), r.ID)
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestBuiltin_CoversEveryAlgorithm(t *testing.T) {
	c, err := topic.NewCatalog(topic.Builtin())
	require.NoError(t, err)

	for _, k := range algorithms.Kinds() {
		assert.NotEmpty(t, c.ForAlgorithm(k), "no topic demonstrates %s", k)
	}
}

func TestValidate(t *testing.T) {
	base := topic.Record{
		ID:         "x",
		Title:      "X",
		Kind:       topic.KindSorting,
		Difficulty: topic.Basic,
		KeyPoints:  []string{"one"},
	}
	require.NoError(t, topic.Validate(base))

	tests := []struct {
		name   string
		mutate func(r *topic.Record)
	}{
		{"bad difficulty", func(r *topic.Record) { r.Difficulty = "expert" }},
		{"frequency too high", func(r *topic.Record) { r.ExamFrequency = 6 }},
		{"no key points", func(r *topic.Record) { r.KeyPoints = nil }},
		{"unknown kind", func(r *topic.Record) { r.Kind = "trees" }},
		{"unknown algorithm", func(r *topic.Record) { r.Algorithms = []algorithms.Kind{"bogo-sort"} }},
		{"code without language", func(r *topic.Record) { r.CodeExample = &topic.CodeExample{Code: "x"} }},
		{"row without worst case", func(r *topic.Record) { r.ComplexityTable = []topic.ComplexityRow{{Operation: "sort"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)
			assert.ErrorIs(t, topic.Validate(r), domain.ErrInvalidInput)
		})
	}
}

func TestDemos(t *testing.T) {
	tracers, sims := topic.Demos(topic.KindHeaps)
	assert.Equal(t, []algorithms.Kind{algorithms.HeapBuild, algorithms.HeapInsert, algorithms.HeapExtract}, tracers)
	assert.Equal(t, []string{"heap"}, sims)

	tracers, sims = topic.Demos(topic.KindLinear)
	assert.Empty(t, tracers)
	assert.Equal(t, []string{"stack", "queue"}, sims)

	tracers, sims = topic.Demos(topic.KindGreedy)
	assert.Equal(t, []algorithms.Kind{algorithms.Huffman}, tracers)
	assert.Empty(t, sims)

	for _, k := range topic.Kinds() {
		tracers, sims := topic.Demos(k)
		assert.True(t, len(tracers)+len(sims) > 0, "kind %s has nothing to show", k)
	}
}

func TestDescriptorTopicsAreKinds(t *testing.T) {
	for _, d := range algorithms.Descriptors() {
		_, err := topic.ParseKind(d.Topic)
		assert.NoError(t, err, "%s belongs to unknown topic kind %q", d.Kind, d.Topic)
	}
}

func TestCatalog_GetAndOverride(t *testing.T) {
	override := topic.Builtin()[0]
	override.Title = "Heaps, revisited"

	c, err := topic.NewCatalog(topic.Builtin(), []topic.Record{override})
	require.NoError(t, err)

	got, err := c.Get("heaps")
	require.NoError(t, err)
	assert.Equal(t, "Heaps, revisited", got.Title)
	assert.Equal(t, "heaps", c.List()[0].ID, "override keeps catalog order")
	assert.Len(t, c.List(), len(topic.Builtin()))

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, domain.ErrTopicNotFound)
}

func TestMarkdown(t *testing.T) {
	c, err := topic.NewCatalog(topic.Builtin())
	require.NoError(t, err)
	r, err := c.Get("heaps")
	require.NoError(t, err)

	md := topic.Markdown(r)
	assert.Contains(t, md, "# Binary heaps")
	assert.Contains(t, md, "★★★★★")
	assert.Contains(t, md, "| build | - | - | O(n) | O(1) |")
	assert.Contains(t, md, "```go\nfunc siftDown")
	assert.Contains(t, md, "- `stepwise play heap-build`")
	assert.Contains(t, md, "- `stepwise simulate heap`")
}

func seed(t *testing.T, files map[string]string) *topic.Loader {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, files)
	return topic.NewLoader(loam.NewTypedRepository[topic.Record](repo))
}

const tries = `---
title: Tries
kind: sorting
difficulty: advanced
exam_frequency: 2
key_points:
  - Prefix trees share common prefixes.
---
Radix sort over strings walks a trie.`

func TestLoader_Load(t *testing.T) {
	loader := seed(t, map[string]string{
		"tries.md": tries,
		"queues.json": `{
  "id": "queues",
  "title": "Queues",
  "kind": "linear",
  "difficulty": "basic",
  "exam_frequency": 1,
  "key_points": ["FIFO"]
}`,
	})

	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "queues", records[0].ID)
	assert.Equal(t, "tries", records[1].ID, "id defaults to the file name")
	assert.Equal(t, topic.Advanced, records[1].Difficulty)
	assert.Equal(t, 2, records[1].ExamFrequency)
	assert.Equal(t, "Radix sort over strings walks a trie.", records[1].Notes)
}

func TestLoader_SnakeCaseKeys(t *testing.T) {
	loader := seed(t, map[string]string{
		"heaps/dary.md": `---
id: dary-heaps
title: d-ary heaps
kind: heaps
difficulty: intermediate
exam_frequency: 3
key_points:
  - Each node has d children.
algorithms: [heap-build]
complexity_table:
  - operation: insert
    worst: O(log_d n)
code_example:
  language: go
  code: "child := d*i + 1"
common_pitfalls:
  - Using 2i+1 for every d.
---
Wider nodes make sift-up cheaper and sift-down dearer.`,
		"deques.json": `{
  "title": "Deques",
  "kind": "linear",
  "difficulty": "basic",
  "key_points": ["Both ends are open."],
  "content": "A deque generalizes the stack and the queue."
}`,
	})

	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	dary := records[0]
	assert.Equal(t, "dary-heaps", dary.ID)
	assert.Equal(t, 3, dary.ExamFrequency)
	assert.Equal(t, []algorithms.Kind{algorithms.HeapBuild}, dary.Algorithms)
	require.Len(t, dary.ComplexityTable, 1)
	assert.Equal(t, "O(log_d n)", dary.ComplexityTable[0].Worst)
	require.NotNil(t, dary.CodeExample)
	assert.Equal(t, "go", dary.CodeExample.Language)
	assert.Equal(t, []string{"Using 2i+1 for every d."}, dary.CommonPitfalls)
	assert.Equal(t, "Wider nodes make sift-up cheaper and sift-down dearer.", dary.Notes)

	deques := records[1]
	assert.Equal(t, "deques", deques.ID)
	assert.Equal(t, "A deque generalizes the stack and the queue.", deques.Notes)
}

func TestLoader_Include(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"tries.md": tries,
		"draft.md": "---\ntitle: Draft\n---\n",
	})

	loader := topic.NewLoader(loam.NewTypedRepository[topic.Record](repo), topic.WithInclude("t*"))
	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "tries", records[0].ID)
}

func TestLoader_RejectsInvalid(t *testing.T) {
	loader := seed(t, map[string]string{
		"bad.md": "---\ntitle: Bad\nkind: sorting\ndifficulty: impossible\nkey_points: [x]\n---\n",
	})
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_MergesBuiltins(t *testing.T) {
	loader := seed(t, map[string]string{"tries.md": tries})

	c, err := topic.Load(context.Background(), loader)
	require.NoError(t, err)
	assert.Len(t, c.List(), len(topic.Builtin())+1)

	_, err = c.Get("tries")
	assert.NoError(t, err)
}
