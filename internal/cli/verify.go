package cli

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/muesli/termenv"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
)

// VerifyResult is the outcome for one algorithm fixture.
type VerifyResult struct {
	Algorithm   algorithms.Kind `json:"algorithm"`
	Steps       int             `json:"steps"`
	Fingerprint string          `json:"fingerprint"`
	// Problems is empty when the fixture passed.
	Problems []string `json:"problems,omitempty"`
	// Diff is the unified diff of the two renders when they disagree.
	Diff string `json:"diff,omitempty"`
}

// OK reports whether the fixture passed every check.
func (r VerifyResult) OK() bool { return len(r.Problems) == 0 }

// generateFunc produces a fresh trace; tests swap it to inject faults.
type generateFunc func(algorithms.Kind) (*trace.Trace[any], error)

// Verify generates every fixture in kinds twice, concurrently, and checks
// step invariants, that each step renders, and that both runs agree.
// A zero parallel uses one worker per CPU.
func Verify(ctx context.Context, kinds []algorithms.Kind, parallel int) ([]VerifyResult, error) {
	return verify(ctx, kinds, parallel, algorithms.GenerateFixture)
}

func verify(ctx context.Context, kinds []algorithms.Kind, parallel int, generate generateFunc) ([]VerifyResult, error) {
	if len(kinds) == 0 {
		kinds = algorithms.Kinds()
	}
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	results := make([]VerifyResult, len(kinds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, kind := range kinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = verifyOne(kind, generate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func verifyOne(kind algorithms.Kind, generate generateFunc) VerifyResult {
	res := VerifyResult{Algorithm: kind}
	fail := func(format string, args ...any) {
		res.Problems = append(res.Problems, fmt.Sprintf(format, args...))
	}

	var (
		runs    [2]*trace.Trace[any]
		renders [2]string
	)
	var g errgroup.Group
	for i := range runs {
		g.Go(func() error {
			t, err := generate(kind)
			if err != nil {
				return err
			}
			runs[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fail("generate: %v", err)
		return res
	}

	first := runs[0]
	res.Steps = first.Len()
	res.Fingerprint = first.Fingerprint()

	plain := render.New(render.WithProfile(termenv.Ascii))
	for r, t := range runs {
		text, problems := renderAll(plain, kind, t)
		renders[r] = text
		if r == 0 {
			for _, p := range problems {
				fail("%s", p)
			}
		}
	}

	if first.Fingerprint() != runs[1].Fingerprint() {
		fail("fingerprint mismatch: %s != %s", short(first.Fingerprint()), short(runs[1].Fingerprint()))
	}
	if renders[0] != renders[1] {
		fail("renders differ between runs")
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(renders[0]),
			B:        difflib.SplitLines(renders[1]),
			FromFile: string(kind) + " (run 1)",
			ToFile:   string(kind) + " (run 2)",
			Context:  3,
		})
		if err == nil {
			res.Diff = diff
		}
	}
	return res
}

// renderAll renders every step of t and checks the per-step invariants.
func renderAll(r *render.Renderer, kind algorithms.Kind, t *trace.Trace[any]) (string, []string) {
	var (
		b        strings.Builder
		problems []string
	)
	steps := t.Steps()
	for i, step := range steps {
		if step.Index != i {
			problems = append(problems, fmt.Sprintf("step %d carries index %d", i, step.Index))
		}
		if strings.TrimSpace(step.Annotation) == "" {
			problems = append(problems, fmt.Sprintf("step %d has no annotation", i))
		}
		text, err := r.Step(kind, step, len(steps))
		if err != nil {
			problems = append(problems, fmt.Sprintf("step %d: render: %v", i, err))
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	if last := steps[len(steps)-1]; last.Phase != trace.PhaseDone {
		problems = append(problems, fmt.Sprintf("last step has phase %q", last.Phase))
	}
	return b.String(), problems
}

func short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
