/*
Package trace defines the generator contract of the stepwise tracer: an
immutable, finite, totally ordered sequence of Steps produced once for a fixed
input.

A generator records every intermediate state through a Builder. The Builder
clones each state before storing it, so later mutations of the generator's
working array (or tree, or map) never leak into earlier steps. Build validates
the sequence invariants and seals the Trace:

	b := trace.NewBuilder("heap-build", ArrayState.Clone)
	b.Record(state, trace.PhaseInit, "initial array")
	...
	t, err := b.Build()

A Trace is safe to share across goroutines and cursors; every accessor returns
copies.
*/
package trace
