package simulator_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/simulator"
	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_PushPop(t *testing.T) {
	s := simulator.NewStack(0)
	for _, v := range []int{10, 20, 30} {
		_, err := s.Apply(simulator.Action{Op: simulator.OpPush, Value: v})
		require.NoError(t, err)
	}

	r, err := s.Apply(simulator.Action{Op: simulator.OpPop})
	require.NoError(t, err)
	assert.Equal(t, 30, r.Value)

	r, err = s.Apply(simulator.Action{Op: simulator.OpPop})
	require.NoError(t, err)
	assert.Equal(t, 20, r.Value)

	assert.Equal(t, 0, s.Top())
	assert.Equal(t, []int{10}, s.Items())
}

func TestStack_RejectsLeaveStateUnchanged(t *testing.T) {
	s := simulator.NewStack(1)
	_, err := s.Apply(simulator.Action{Op: simulator.OpPop})
	assert.ErrorIs(t, err, domain.ErrUnderflow)

	_, err = s.Apply(simulator.Action{Op: simulator.OpPush, Value: 1})
	require.NoError(t, err)
	_, err = s.Apply(simulator.Action{Op: simulator.OpPush, Value: 2})
	assert.ErrorIs(t, err, domain.ErrOverflow)
	assert.Equal(t, []int{1}, s.Items())
}

func TestParseValue(t *testing.T) {
	v, err := simulator.ParseValue(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	for _, bad := range []string{"0", "1000", "abc", "", "-3"} {
		_, err := simulator.ParseValue(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, bad)
		assert.Contains(t, err.Error(), "enter an integer between 1 and 999")
	}
}

func TestHashTable_Capacity(t *testing.T) {
	h := simulator.NewHashTable(2)
	_, err := simulator.Exec(h, "insert 1")
	require.NoError(t, err)
	_, err = simulator.Exec(h, "insert 3")
	require.NoError(t, err)

	_, err = simulator.Exec(h, "insert 5")
	assert.ErrorIs(t, err, domain.ErrCapacity)
	assert.Contains(t, err.Error(), "maximum 2 items reached")

	_, err = simulator.Exec(h, "insert 3")
	assert.ErrorIs(t, err, domain.ErrDuplicateValue)
}

func TestMinHeap_RejectsDuplicate(t *testing.T) {
	h := simulator.NewMinHeap(4)
	_, err := simulator.Exec(h, "insert 5")
	require.NoError(t, err)

	_, err = simulator.Exec(h, "insert 5")
	assert.ErrorIs(t, err, domain.ErrDuplicateValue)
	assert.Equal(t, []int{5}, h.Items())
}

func TestBST_TreeKeepsShape(t *testing.T) {
	b := simulator.NewBST(0)
	for _, v := range []int{50, 30, 70, 20, 40, 60, 80} {
		_, err := b.Apply(simulator.Action{Op: simulator.OpInsert, Value: v})
		require.NoError(t, err)
	}
	tree := b.Tree()
	assert.Equal(t, "50", tree.Root)
	n, ok := tree.Node("30")
	require.True(t, ok)
	assert.Equal(t, "20", n.Left)
	assert.Equal(t, "40", n.Right)
}

func TestNew(t *testing.T) {
	for _, kind := range simulator.Kinds() {
		sim, err := simulator.New(kind, 0)
		require.NoError(t, err)
		assert.Equal(t, kind, sim.Name())
		assert.NotEmpty(t, sim.Ops())
	}
	_, err := simulator.New("trie", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestScripts runs the command scripts under testdata. Each "new" directive
// starts a fresh structure and the following "run" blocks drive it.
func TestScripts(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		var sim simulator.Simulator
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "new":
				var kind string
				capacity := 0
				d.ScanArgs(t, "kind", &kind)
				if d.HasArg("cap") {
					d.ScanArgs(t, "cap", &capacity)
				}
				var err error
				sim, err = simulator.New(kind, capacity)
				require.NoError(t, err)
				return sim.String()
			case "run":
				var out strings.Builder
				for _, line := range strings.Split(strings.TrimSpace(d.Input), "\n") {
					r, err := simulator.Exec(sim, line)
					if err != nil {
						fmt.Fprintf(&out, "%s: error: %v\n", line, err)
					} else {
						fmt.Fprintf(&out, "%s: %s\n", line, r.Message)
					}
				}
				fmt.Fprintf(&out, "%s\n", sim)
				return out.String()
			default:
				return fmt.Sprintf("unknown command: %s", d.Cmd)
			}
		})
	})
}
