package algorithms

import "github.com/aretw0/stepwise/pkg/trace"

// Phases recorded between trace.PhaseInit and trace.PhaseDone.
const (
	PhaseSwap    trace.Phase = "swap"
	PhaseSettle  trace.Phase = "settle"
	PhaseAppend  trace.Phase = "append"
	PhaseRemove  trace.Phase = "remove"
	PhaseScan    trace.Phase = "scan"
	PhasePlace   trace.Phase = "place"
	PhaseMerge   trace.Phase = "merge"
	PhaseCompare trace.Phase = "compare"
	PhaseInsert  trace.Phase = "insert"
	PhaseFound   trace.Phase = "found"
	PhaseVisit   trace.Phase = "visit"
	PhaseProbe   trace.Phase = "probe"
)
