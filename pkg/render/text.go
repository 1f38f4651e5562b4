package render

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/olekukonko/tablewriter"
)

// Step draws the header, the body and the annotation of step.
// total is the trace length, used for the "n/total" counter.
func (r *Renderer) Step(kind algorithms.Kind, step trace.Step[any], total int) (string, error) {
	body, err := r.Body(kind, step)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(r.Header(kind, step, total))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(step.Annotation)
	b.WriteString("\n")
	return b.String(), nil
}

// Header is the one-line title of a step.
func (r *Renderer) Header(kind algorithms.Kind, step trace.Step[any], total int) string {
	h := fmt.Sprintf("%s  step %d/%d", kind, step.Index+1, total)
	if step.Phase != "" {
		h += fmt.Sprintf("  [%s]", step.Phase)
	}
	return r.bold(h)
}

// Body draws the state of step in the layout of kind.
func (r *Renderer) Body(kind algorithms.Kind, step trace.Step[any]) (string, error) {
	layout, err := LayoutOf(kind)
	if err != nil {
		return "", err
	}
	switch layout {
	case LayoutArray:
		st, err := trace.StateAs[algorithms.ArrayState](step)
		if err != nil {
			return "", err
		}
		return r.array(st, step, isHeap(kind)), nil
	case LayoutTree:
		st, err := trace.StateAs[algorithms.TreeState](step)
		if err != nil {
			return "", err
		}
		return r.tree(st, step), nil
	case LayoutGraph:
		st, err := trace.StateAs[algorithms.GraphState](step)
		if err != nil {
			return "", err
		}
		return r.graph(st, step), nil
	case LayoutForest:
		st, err := trace.StateAs[algorithms.HuffmanState](step)
		if err != nil {
			return "", err
		}
		return r.forest(st, step), nil
	case LayoutTable:
		st, err := trace.StateAs[algorithms.HashState](step)
		if err != nil {
			return "", err
		}
		return r.table(st, step), nil
	}
	return "", fmt.Errorf("no renderer for layout %q", layout)
}

func cellWidth(values []int) int {
	w := 3
	for _, v := range values {
		w = max(w, len(strconv.Itoa(v))+1)
	}
	return w
}

func (r *Renderer) array(st algorithms.ArrayState, step trace.Step[any], heap bool) string {
	w := cellWidth(append(slices.Clone(st.Values), len(st.Values)))
	var idx, val, marks strings.Builder
	idx.WriteString("idx ")
	val.WriteString("val ")
	marks.WriteString("    ")
	for i, v := range st.Values {
		role, _ := step.IndexRole(i)
		fmt.Fprintf(&idx, "%*d", w, i)
		val.WriteString(r.paint(fmt.Sprintf("%*d", w, v), role))
		fmt.Fprintf(&marks, "%*s", w, Mark(role))
	}

	var b strings.Builder
	b.WriteString(idx.String() + "\n")
	b.WriteString(val.String() + "\n")
	if m := strings.TrimRight(marks.String(), " "); m != "" {
		b.WriteString(m + "\n")
	}
	if st.Low >= 0 && st.High >= st.Low && (st.Low > 0 || st.High < len(st.Values)-1) {
		fmt.Fprintf(&b, "range [%d..%d]\n", st.Low, st.High)
	}
	if len(st.Output) > 0 {
		fmt.Fprintf(&b, "out %v\n", st.Output)
	}
	if heap && len(st.Values) > 0 {
		b.WriteString("\n")
		for level, start := 0, 0; start < len(st.Values); level, start = level+1, 2*start+1 {
			end := min(2*start+1, len(st.Values))
			parts := make([]string, 0, end-start)
			for i := start; i < end; i++ {
				role, _ := step.IndexRole(i)
				parts = append(parts, r.paint(strconv.Itoa(st.Values[i]), role))
			}
			fmt.Fprintf(&b, "L%d: %s\n", level, strings.Join(parts, " "))
		}
	}
	return b.String()
}

func (r *Renderer) nodeLabel(text string, step trace.Step[any], id string) string {
	role, ok := step.Role(trace.HighlightNode, id)
	if !ok {
		return text
	}
	return fmt.Sprintf("%s (%s)", r.paint(text, role), role)
}

func (r *Renderer) tree(st algorithms.TreeState, step trace.Step[any]) string {
	var b strings.Builder
	if st.Root == "" {
		b.WriteString("(empty tree)\n")
	} else {
		var walk func(id, prefix, branch string)
		walk = func(id, prefix, branch string) {
			n, _ := st.Node(id)
			fmt.Fprintf(&b, "%s%s%s\n", prefix, branch, r.nodeLabel(strconv.Itoa(n.Value), step, id))
			children := []struct{ id, side string }{}
			if n.Left != "" {
				children = append(children, struct{ id, side string }{n.Left, "L "})
			}
			if n.Right != "" {
				children = append(children, struct{ id, side string }{n.Right, "R "})
			}
			next := prefix
			switch {
			case branch == "":
			case strings.HasPrefix(branch, "└─"):
				next += "    "
			default:
				next += "│   "
			}
			for i, c := range children {
				br := "├─"
				if i == len(children)-1 {
					br = "└─"
				}
				walk(c.id, next, br+c.side)
			}
		}
		walk(st.Root, "", "")
	}
	if len(st.Output) > 0 {
		fmt.Fprintf(&b, "out %v\n", st.Output)
	}
	return b.String()
}

func (r *Renderer) graph(st algorithms.GraphState, step trace.Step[any]) string {
	var b strings.Builder
	tbl := tablewriter.NewWriter(&b)
	tbl.SetHeader([]string{"Node", "Dist", "Prev", "Role"})
	for _, n := range st.Graph.Nodes {
		dist := "inf"
		if st.Dist == nil {
			dist = "-"
		} else if d, ok := st.Dist[n]; ok {
			dist = strconv.Itoa(d)
		}
		prev := st.Prev[n]
		if prev == "" {
			prev = "-"
		}
		role, _ := step.Role(trace.HighlightNode, n)
		tbl.Append([]string{r.paint(n, role), dist, prev, string(role)})
	}
	tbl.Render()

	fmt.Fprintf(&b, "visited: %s\n", strings.Join(st.Visited, " "))
	if len(st.Frontier) > 0 {
		fmt.Fprintf(&b, "frontier: %s\n", strings.Join(st.Frontier, " "))
	}
	if edges := step.Keys(trace.HighlightEdge); len(edges) > 0 {
		fmt.Fprintf(&b, "edges: %s\n", strings.Join(edges, " "))
	}
	return b.String()
}

func (r *Renderer) forest(st algorithms.HuffmanState, step trace.Step[any]) string {
	var b strings.Builder
	var walk func(id int, prefix, bit string)
	walk = func(id int, prefix, bit string) {
		n := st.Nodes[id]
		label := fmt.Sprintf("(%d)", n.Freq)
		if n.Leaf() {
			label = fmt.Sprintf("%s:%d", n.Symbol, n.Freq)
		}
		fmt.Fprintf(&b, "%s%s%s\n", prefix, bit, r.nodeLabel(label, step, strconv.Itoa(id)))
		if n.Leaf() {
			return
		}
		walk(n.Left, prefix+"  ", "0 ")
		walk(n.Right, prefix+"  ", "1 ")
	}
	for i, id := range st.Queue {
		fmt.Fprintf(&b, "tree %d:\n", i+1)
		walk(id, "  ", "")
	}

	if len(st.Codes) > 0 {
		b.WriteString("\n")
		tbl := tablewriter.NewWriter(&b)
		tbl.SetHeader([]string{"Symbol", "Freq", "Code"})
		for _, n := range st.Nodes {
			if n.Leaf() {
				tbl.Append([]string{n.Symbol, strconv.Itoa(n.Freq), st.Codes[n.Symbol]})
			}
		}
		tbl.Render()
	}
	return b.String()
}

func (r *Renderer) table(st algorithms.HashState, step trace.Step[any]) string {
	var b strings.Builder
	tbl := tablewriter.NewWriter(&b)
	tbl.SetHeader([]string{"Slot", "Key", "Role"})
	for i, v := range st.Slots {
		key := ""
		if v != algorithms.EmptySlot {
			key = strconv.Itoa(v)
		}
		role, _ := step.IndexRole(i)
		tbl.Append([]string{strconv.Itoa(i), r.paint(key, role), string(role)})
	}
	tbl.Render()
	if len(st.Pending) > 0 {
		fmt.Fprintf(&b, "pending %v\n", st.Pending)
	}
	if st.Probes > 0 {
		fmt.Fprintf(&b, "probes %d\n", st.Probes)
	}
	return b.String()
}
