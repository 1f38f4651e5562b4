package algorithms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/stepwise/pkg/trace"
)

func newGraphState(g Graph) GraphState {
	return GraphState{Graph: g.Clone(), Visited: []string{}}
}

func (s GraphState) edge(from, to string, role trace.Role) trace.Highlight {
	a, b := s.Graph.EdgeKey(from, to)
	return trace.Edge(a, b, role)
}

func (s GraphState) visitedHighlights() []trace.Highlight {
	hs := make([]trace.Highlight, 0, len(s.Visited))
	for _, v := range s.Visited {
		hs = append(hs, trace.Node(v, trace.RoleVisited))
	}
	return hs
}

// DijkstraTrace computes shortest distances from source.
// One visit step is recorded per settled node.
func DijkstraTrace(g Graph, source string) (*trace.Trace[GraphState], error) {
	if !slices.Contains(g.Nodes, source) {
		return nil, inputErr(Dijkstra, "source", "unknown node %q", source)
	}
	for _, e := range g.Edges {
		if e.Weight < 0 {
			return nil, inputErr(Dijkstra, "graph", "negative weight on %s-%s", e.From, e.To)
		}
	}

	b := trace.NewBuilder(string(Dijkstra), GraphState.Clone)
	st := newGraphState(g)
	st.Dist = map[string]int{source: 0}
	st.Prev = map[string]string{}
	st.Frontier = []string{source}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("dist(%s) = 0; every other node starts at infinity.", source),
		trace.Node(source, trace.RoleFrontier))

	visited := map[string]bool{}
	for {
		u, ok := closest(st, visited)
		if !ok {
			break
		}
		visited[u] = true
		st.Visited = append(st.Visited, u)

		hs := []trace.Highlight{trace.Node(u, trace.RoleCurrent)}
		var relaxed []string
		for _, e := range g.Neighbors(u) {
			if visited[e.To] {
				continue
			}
			nd := st.Dist[u] + e.Weight
			if old, known := st.Dist[e.To]; !known || nd < old {
				st.Dist[e.To] = nd
				st.Prev[e.To] = u
				relaxed = append(relaxed, fmt.Sprintf("%s=%d", e.To, nd))
				hs = append(hs, st.edge(u, e.To, trace.RoleRelaxed), trace.Node(e.To, trace.RoleRelaxed))
			}
		}
		st.Frontier = openSet(st, visited)
		hs = append(hs, st.visitedHighlights()...)

		msg := fmt.Sprintf("Visit %s at distance %d; no distance improves.", u, st.Dist[u])
		if len(relaxed) > 0 {
			msg = fmt.Sprintf("Visit %s at distance %d; relax %s.", u, st.Dist[u], strings.Join(relaxed, ", "))
		}
		b.Record(st, PhaseVisit, msg, hs...)
	}

	st.Frontier = nil
	b.Record(st, trace.PhaseDone, fmt.Sprintf("All reachable nodes settled: %s.", formatDist(st)), st.visitedHighlights()...)
	return b.Build()
}

// closest picks the unvisited node with the strictly smallest known distance,
// scanning in declaration order so ties go to the earlier node.
func closest(st GraphState, visited map[string]bool) (string, bool) {
	best, found := "", false
	for _, n := range st.Graph.Nodes {
		d, known := st.Dist[n]
		if visited[n] || !known {
			continue
		}
		if !found || d < st.Dist[best] {
			best, found = n, true
		}
	}
	return best, found
}

func openSet(st GraphState, visited map[string]bool) []string {
	var out []string
	for _, n := range st.Graph.Nodes {
		if _, known := st.Dist[n]; known && !visited[n] {
			out = append(out, n)
		}
	}
	return out
}

func formatDist(st GraphState) string {
	parts := make([]string, 0, len(st.Visited))
	for _, n := range st.Visited {
		parts = append(parts, fmt.Sprintf("%s=%d", n, st.Dist[n]))
	}
	return strings.Join(parts, " ")
}

// BFSTrace visits the nodes reachable from source level by level.
func BFSTrace(g Graph, source string) (*trace.Trace[GraphState], error) {
	if !slices.Contains(g.Nodes, source) {
		return nil, inputErr(BFS, "source", "unknown node %q", source)
	}

	b := trace.NewBuilder(string(BFS), GraphState.Clone)
	st := newGraphState(g)
	st.Dist = map[string]int{source: 0}
	st.Prev = map[string]string{}
	st.Frontier = []string{source}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Enqueue %s at level 0.", source), trace.Node(source, trace.RoleFrontier))

	discovered := map[string]bool{source: true}
	for len(st.Frontier) > 0 {
		u := st.Frontier[0]
		st.Frontier = st.Frontier[1:]
		st.Visited = append(st.Visited, u)

		hs := []trace.Highlight{trace.Node(u, trace.RoleCurrent)}
		var found []string
		for _, e := range g.Neighbors(u) {
			if discovered[e.To] {
				continue
			}
			discovered[e.To] = true
			st.Dist[e.To] = st.Dist[u] + 1
			st.Prev[e.To] = u
			st.Frontier = append(st.Frontier, e.To)
			found = append(found, e.To)
			hs = append(hs, st.edge(u, e.To, trace.RoleFrontier))
		}
		for _, f := range st.Frontier {
			hs = append(hs, trace.Node(f, trace.RoleFrontier))
		}
		hs = append(hs, st.visitedHighlights()...)

		msg := fmt.Sprintf("Dequeue %s (level %d); no new neighbors.", u, st.Dist[u])
		if len(found) > 0 {
			msg = fmt.Sprintf("Dequeue %s (level %d); enqueue %s.", u, st.Dist[u], strings.Join(found, ", "))
		}
		b.Record(st, PhaseVisit, msg, hs...)
	}

	b.Record(st, trace.PhaseDone, fmt.Sprintf("BFS order: %s.", strings.Join(st.Visited, " ")), st.visitedHighlights()...)
	return b.Build()
}

// DFSTrace visits the nodes reachable from source depth first, trying
// neighbors in declaration order. Frontier holds the recursion path.
func DFSTrace(g Graph, source string) (*trace.Trace[GraphState], error) {
	if !slices.Contains(g.Nodes, source) {
		return nil, inputErr(DFS, "source", "unknown node %q", source)
	}

	b := trace.NewBuilder(string(DFS), GraphState.Clone)
	st := newGraphState(g)
	st.Prev = map[string]string{}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Start the depth-first walk at %s.", source), trace.Node(source, trace.RoleFrontier))

	visited := map[string]bool{}
	var visit func(u, from string)
	visit = func(u, from string) {
		visited[u] = true
		st.Visited = append(st.Visited, u)
		st.Frontier = append(st.Frontier, u)

		hs := []trace.Highlight{trace.Node(u, trace.RoleCurrent)}
		msg := fmt.Sprintf("Visit %s.", u)
		if from != "" {
			st.Prev[u] = from
			hs = append(hs, st.edge(from, u, trace.RoleVisited))
			msg = fmt.Sprintf("Visit %s from %s; path %s.", u, from, strings.Join(st.Frontier, "-"))
		}
		for _, f := range st.Frontier {
			hs = append(hs, trace.Node(f, trace.RoleFrontier))
		}
		hs = append(hs, st.visitedHighlights()...)
		b.Record(st, PhaseVisit, msg, hs...)

		for _, e := range g.Neighbors(u) {
			if !visited[e.To] {
				visit(e.To, u)
			}
		}
		st.Frontier = st.Frontier[:len(st.Frontier)-1]
	}
	visit(source, "")

	b.Record(st, trace.PhaseDone, fmt.Sprintf("DFS order: %s.", strings.Join(st.Visited, " ")), st.visitedHighlights()...)
	return b.Build()
}
