package graph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/aretw0/stepwise/pkg/trace"
)

// roleStyles are the Mermaid classDef bodies for each role.
// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
var roleStyles = map[trace.Role]string{
	trace.RoleCurrent:   "fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000",
	trace.RoleVisited:   "fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000",
	trace.RoleFrontier:  "fill:#ede7f6,stroke:#5e35b1,stroke-width:2px,color:#000",
	trace.RoleRelaxed:   "fill:#f1f8e9,stroke:#558b2f,stroke-width:2px,color:#000",
	trace.RoleFound:     "fill:#c8e6c9,stroke:#2e7d32,stroke-width:4px,color:#000",
	trace.RoleInserted:  "fill:#b2ebf2,stroke:#00838f,stroke-width:4px,color:#000",
	trace.RoleSwap:      "fill:#ffcdd2,stroke:#c62828,stroke-width:3px,color:#000",
	trace.RoleCompare:   "fill:#bbdefb,stroke:#1565c0,stroke-width:2px,color:#000",
	trace.RoleSorted:    "fill:#dcedc8,stroke:#33691e,stroke-width:1px,color:#000",
	trace.RoleMerged:    "fill:#b2dfdb,stroke:#00695c,stroke-width:3px,color:#000",
	trace.RoleLeft:      "fill:#e3f2fd,stroke:#0277bd,stroke-width:2px,color:#000",
	trace.RoleRight:     "fill:#fce4ec,stroke:#ad1457,stroke-width:2px,color:#000",
	trace.RolePivot:     "fill:#e1bee7,stroke:#6a1b9a,stroke-width:4px,color:#000",
	trace.RoleBoundary:  "fill:#ffe0b2,stroke:#ef6c00,stroke-width:2px,color:#000",
	trace.RoleProbe:     "fill:#fff8e1,stroke:#ff8f00,stroke-width:2px,color:#000",
	trace.RoleCollision: "fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000",
}

// GenerateMermaid produces a Mermaid flowchart of a tree, graph or forest step.
// Node shapes follow the structure:
// - BST and heap nodes: ((Circle))
// - Graph nodes: [Rectangle]
// - Huffman leaves: ([Stadium]), internal nodes: ((Circle))
// Highlight roles become classDef overlays, and highlighted edges are drawn thick.
func GenerateMermaid(kind algorithms.Kind, step trace.Step[any]) (string, error) {
	layout, err := render.LayoutOf(kind)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	switch layout {
	case render.LayoutTree:
		st, err := trace.StateAs[algorithms.TreeState](step)
		if err != nil {
			return "", err
		}
		writeTree(&sb, st)
	case render.LayoutGraph:
		st, err := trace.StateAs[algorithms.GraphState](step)
		if err != nil {
			return "", err
		}
		writeGraph(&sb, st, step)
	case render.LayoutForest:
		st, err := trace.StateAs[algorithms.HuffmanState](step)
		if err != nil {
			return "", err
		}
		writeForest(&sb, st)
	case render.LayoutArray:
		if !slices.Contains([]algorithms.Kind{algorithms.HeapBuild, algorithms.HeapInsert, algorithms.HeapExtract}, kind) {
			return "", fmt.Errorf("%s has no graph view", kind)
		}
		st, err := trace.StateAs[algorithms.ArrayState](step)
		if err != nil {
			return "", err
		}
		writeHeap(&sb, st)
		// Heap highlights are array indexes; the heap nodes are named after them.
		step.Highlights = indexesAsNodes(step.Highlights)
	default:
		return "", fmt.Errorf("%s has no graph view", kind)
	}

	writeOverlay(&sb, step)
	return sb.String(), nil
}

func writeTree(sb *strings.Builder, st algorithms.TreeState) {
	sb.WriteString("graph TD\n")
	for _, n := range st.Nodes {
		fmt.Fprintf(sb, "    %s((\"%d\"))\n", nodeID(n.ID), n.Value)
	}
	for _, n := range st.Nodes {
		if n.Left != "" {
			fmt.Fprintf(sb, "    %s -- \"L\" --> %s\n", nodeID(n.ID), nodeID(n.Left))
		}
		if n.Right != "" {
			fmt.Fprintf(sb, "    %s -- \"R\" --> %s\n", nodeID(n.ID), nodeID(n.Right))
		}
	}
}

func writeHeap(sb *strings.Builder, st algorithms.ArrayState) {
	sb.WriteString("graph TD\n")
	for i, v := range st.Values {
		fmt.Fprintf(sb, "    %s((\"%d\"))\n", nodeID(strconv.Itoa(i)), v)
	}
	for i := 1; i < len(st.Values); i++ {
		fmt.Fprintf(sb, "    %s --> %s\n", nodeID(strconv.Itoa((i-1)/2)), nodeID(strconv.Itoa(i)))
	}
}

func writeGraph(sb *strings.Builder, st algorithms.GraphState, step trace.Step[any]) {
	sb.WriteString("graph LR\n")
	for _, n := range st.Graph.Nodes {
		label := n
		if d, ok := st.Dist[n]; ok {
			label = fmt.Sprintf("%s <br/> %d", n, d)
		}
		fmt.Fprintf(sb, "    %s[\"%s\"]\n", nodeID(n), label)
	}

	arrow := "---"
	if st.Graph.Directed {
		arrow = "-->"
	}
	var thick []int
	for i, e := range st.Graph.Edges {
		fmt.Fprintf(sb, "    %s %s|%d| %s\n", nodeID(e.From), arrow, e.Weight, nodeID(e.To))
		a, b := st.Graph.EdgeKey(e.From, e.To)
		if _, ok := step.Role(trace.HighlightEdge, a+"->"+b); ok {
			thick = append(thick, i)
		}
	}
	for _, i := range thick {
		fmt.Fprintf(sb, "    linkStyle %d stroke-width:4px,stroke:#558b2f;\n", i)
	}
}

func writeForest(sb *strings.Builder, st algorithms.HuffmanState) {
	sb.WriteString("graph TD\n")
	for _, n := range st.Nodes {
		id := nodeID(strconv.Itoa(n.ID))
		if n.Leaf() {
			fmt.Fprintf(sb, "    %s([\"%s:%d\"])\n", id, n.Symbol, n.Freq)
		} else {
			fmt.Fprintf(sb, "    %s((\"%d\"))\n", id, n.Freq)
		}
	}
	for _, n := range st.Nodes {
		if n.Leaf() {
			continue
		}
		id := nodeID(strconv.Itoa(n.ID))
		fmt.Fprintf(sb, "    %s -- \"0\" --> %s\n", id, nodeID(strconv.Itoa(n.Left)))
		fmt.Fprintf(sb, "    %s -- \"1\" --> %s\n", id, nodeID(strconv.Itoa(n.Right)))
	}
}

func writeOverlay(sb *strings.Builder, step trace.Step[any]) {
	byRole := map[trace.Role][]string{}
	var order []trace.Role
	for _, h := range step.Highlights {
		if h.Kind != trace.HighlightNode || h.Role == "" {
			continue
		}
		if _, ok := roleStyles[h.Role]; !ok {
			continue
		}
		if _, seen := byRole[h.Role]; !seen {
			order = append(order, h.Role)
		}
		byRole[h.Role] = append(byRole[h.Role], nodeID(h.Key))
	}
	if len(order) == 0 {
		return
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	for _, role := range order {
		fmt.Fprintf(sb, "    classDef %s %s;\n", role, roleStyles[role])
	}
	for _, role := range order {
		fmt.Fprintf(sb, "    class %s %s;\n", strings.Join(byRole[role], ","), role)
	}
}

func indexesAsNodes(hs []trace.Highlight) []trace.Highlight {
	out := make([]trace.Highlight, 0, len(hs))
	for _, h := range hs {
		if h.Kind == trace.HighlightIndex {
			h.Kind = trace.HighlightNode
		}
		out = append(out, h)
	}
	return out
}

// nodeID prefixes numeric keys so every ID starts with a letter.
func nodeID(key string) string {
	return "n_" + sanitizeMermaidID(key)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
