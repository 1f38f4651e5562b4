package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cells struct {
	Values []int `json:"values" yaml:"values"`
}

func (c cells) Clone() cells { return cells{Values: slices.Clone(c.Values)} }

func buildCounter(t *testing.T) *Trace[cells] {
	t.Helper()
	b := NewBuilder("counter", cells.Clone)
	work := cells{Values: []int{0, 0, 0}}
	b.Record(work, PhaseInit, "start")
	for i := range work.Values {
		work.Values[i] = i + 1
		b.Record(work, "write", "wrote a cell", Index(i, RoleCurrent))
	}
	b.Record(work, PhaseDone, "done")
	tr, err := b.Build()
	require.NoError(t, err)
	return tr
}

func TestBuilder_SnapshotsAreIndependent(t *testing.T) {
	tr := buildCounter(t)
	require.Equal(t, 5, tr.Len())

	assert.Equal(t, []int{0, 0, 0}, tr.At(0).State.Values)
	assert.Equal(t, []int{1, 0, 0}, tr.At(1).State.Values)
	assert.Equal(t, []int{1, 2, 3}, tr.Last().State.Values)
}

func TestTrace_AccessorsReturnCopies(t *testing.T) {
	tr := buildCounter(t)

	step := tr.At(1)
	step.State.Values[0] = 99
	step.Highlights[0].Role = RoleSwap

	again := tr.At(1)
	assert.Equal(t, []int{1, 0, 0}, again.State.Values)
	assert.Equal(t, RoleCurrent, again.Highlights[0].Role)

	all := tr.Steps()
	all[2].State.Values[1] = -1
	assert.Equal(t, []int{1, 2, 0}, tr.At(2).State.Values)
}

func TestTrace_IndexesAreSequential(t *testing.T) {
	tr := buildCounter(t)
	for i, s := range tr.Steps() {
		assert.Equal(t, i, s.Index)
	}
	assert.Equal(t, PhaseInit, tr.First().Phase)
	assert.Equal(t, PhaseDone, tr.Last().Phase)
	assert.NoError(t, Validate(tr))
}

func TestBuilder_Empty(t *testing.T) {
	_, err := NewBuilder("empty", cells.Clone).Build()
	assert.ErrorIs(t, err, domain.ErrEmptyTrace)
}

func TestBuilder_RequiresTerminalPhase(t *testing.T) {
	b := NewBuilder("open-ended", cells.Clone)
	b.Record(cells{}, PhaseInit, "start")
	b.Record(cells{}, "work", "still going")
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrInvalidTrace)
}

func TestBuilder_UnphasedSingleStep(t *testing.T) {
	b := NewBuilder("trivial", cells.Clone)
	b.Record(cells{}, "", "nothing to do")
	tr, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())
}

func TestBuilder_HighlightsAreDeduplicated(t *testing.T) {
	b := NewBuilder("dups", cells.Clone)
	b.Record(cells{}, PhaseDone, "x",
		Index(1, RolePivot), Index(1, RoleSwap), Node("A", RoleVisited), Index(0, RoleCompare))
	tr, err := b.Build()
	require.NoError(t, err)

	hl := tr.First().Highlights
	require.Len(t, hl, 3)
	assert.Equal(t, Index(1, RolePivot), hl[0])
	assert.Equal(t, []string{"1", "0"}, tr.First().Keys(HighlightIndex))

	role, ok := tr.First().IndexRole(1)
	assert.True(t, ok)
	assert.Equal(t, RolePivot, role)
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := buildCounter(t)
	b := buildCounter(t)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
	assert.Equal(t, a.Steps(), b.Steps())
}

func TestErase(t *testing.T) {
	typed := buildCounter(t)
	erased := Erase(typed)

	assert.Equal(t, typed.Len(), erased.Len())
	assert.Equal(t, typed.Fingerprint(), erased.Fingerprint())
	assert.Equal(t, "counter", erased.Algorithm())

	state, err := StateAs[cells](erased.At(2))
	require.NoError(t, err)
	state.Values[0] = 42

	again, err := StateAs[cells](erased.At(2))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, again.Values)

	_, err = StateAs[string](erased.At(0))
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	tr := buildCounter(t)

	var js bytes.Buffer
	require.NoError(t, Encode(&js, tr, FormatJSON))
	assert.Contains(t, js.String(), `"algorithm": "counter"`)
	assert.Contains(t, js.String(), tr.Fingerprint())

	var ym bytes.Buffer
	require.NoError(t, Encode(&ym, tr, FormatYAML))
	assert.Contains(t, ym.String(), "algorithm: counter")
	assert.Contains(t, ym.String(), "annotation: wrote a cell")
}

func TestWriteFile_Compressed(t *testing.T) {
	tr := buildCounter(t)
	path := filepath.Join(t.TempDir(), "counter.json.zst")
	require.NoError(t, WriteFile(path, tr, ""))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	doc, err := ReadJSON(f, true)
	require.NoError(t, err)
	assert.Equal(t, "counter", doc["algorithm"])
	steps, ok := doc["steps"].([]any)
	require.True(t, ok)
	assert.Len(t, steps, 5)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
