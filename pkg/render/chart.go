package render

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/guptarohit/asciigraph"
)

// Chart plots the array of an array-layout step as a line graph, which shows
// how close the values are to sorted order.
func Chart(kind algorithms.Kind, step trace.Step[any], height int) (string, error) {
	layout, err := LayoutOf(kind)
	if err != nil {
		return "", err
	}
	if layout != LayoutArray {
		return "", fmt.Errorf("%s has a %s layout; charts need an array", kind, layout)
	}
	st, err := trace.StateAs[algorithms.ArrayState](step)
	if err != nil {
		return "", err
	}
	if len(st.Values) == 0 {
		return "(no values)", nil
	}

	data := make([]float64, len(st.Values))
	for i, v := range st.Values {
		data[i] = float64(v)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(max(height, 2)),
		asciigraph.Caption(fmt.Sprintf("%s step %d", kind, step.Index+1)),
	), nil
}
