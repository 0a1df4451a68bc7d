package dag

import (
	"errors"
	"slices"
)

var (
	// ErrGraphHasCycle is returned by [Graph.Validate] and [Graph.TopologicalSort]
	// when a cycle is detected. Cycles are detected using depth-first search
	// with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrUnknownNode is returned by operations that require an existing node.
	ErrUnknownNode = errors.New("unknown node")
)

// Edge is a directed edge From → To.
type Edge[N comparable] struct {
	From N
	To   N
}

// Graph is a directed graph over comparable vertex values.
//
// Nodes are identified by value: adding a node that compares equal to an
// existing one is a no-op, and so is adding an edge that already exists.
// Nodes keep their insertion order, and so do each node's children and
// parents; every traversal in this package follows that order, which makes
// results deterministic for a deterministic sequence of insertions.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph[N comparable] struct {
	order    []N
	nodes    map[N]struct{}
	edges    map[Edge[N]]struct{}
	outgoing map[N][]N // node -> children, insertion order
	incoming map[N][]N // node -> parents, insertion order
}

// New creates an empty graph.
func New[N comparable]() *Graph[N] {
	return &Graph[N]{
		nodes:    make(map[N]struct{}),
		edges:    make(map[Edge[N]]struct{}),
		outgoing: make(map[N][]N),
		incoming: make(map[N][]N),
	}
}

// AddNode adds n to the graph and reports whether it was absent.
func (g *Graph[N]) AddNode(n N) bool {
	if _, ok := g.nodes[n]; ok {
		return false
	}
	g.nodes[n] = struct{}{}
	g.order = append(g.order, n)
	return true
}

// AddEdge adds the edge from → to, creating either endpoint if absent.
// It reports whether the edge was new; adding an existing edge leaves the
// graph unchanged.
//
// Self loops are stored like any other edge and make the graph cyclic.
func (g *Graph[N]) AddEdge(from, to N) bool {
	g.AddNode(from)
	g.AddNode(to)
	e := Edge[N]{From: from, To: to}
	if _, ok := g.edges[e]; ok {
		return false
	}
	g.edges[e] = struct{}{}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return true
}

// RemoveEdge removes the edge from → to if it exists and reports whether
// it did.
func (g *Graph[N]) RemoveEdge(from, to N) bool {
	e := Edge[N]{From: from, To: to}
	if _, ok := g.edges[e]; !ok {
		return false
	}
	delete(g.edges, e)
	g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(c N) bool { return c == to })
	g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(p N) bool { return p == from })
	return true
}

// RemoveNode deletes n and every edge incident to it. It reports whether n
// was present.
//
// This is an O(N + deg) operation: the insertion-order index is compacted.
func (g *Graph[N]) RemoveNode(n N) bool {
	if _, ok := g.nodes[n]; !ok {
		return false
	}
	for _, c := range g.outgoing[n] {
		delete(g.edges, Edge[N]{From: n, To: c})
		if c != n {
			g.incoming[c] = slices.DeleteFunc(g.incoming[c], func(p N) bool { return p == n })
		}
	}
	for _, p := range g.incoming[n] {
		delete(g.edges, Edge[N]{From: p, To: n})
		if p != n {
			g.outgoing[p] = slices.DeleteFunc(g.outgoing[p], func(c N) bool { return c == n })
		}
	}
	delete(g.outgoing, n)
	delete(g.incoming, n)
	delete(g.nodes, n)
	g.order = slices.DeleteFunc(g.order, func(m N) bool { return m == n })
	return true
}

// HasNode reports whether n is in the graph.
func (g *Graph[N]) HasNode(n N) bool {
	_, ok := g.nodes[n]
	return ok
}

// HasEdge reports whether the edge from → to is in the graph.
func (g *Graph[N]) HasEdge(from, to N) bool {
	_, ok := g.edges[Edge[N]{From: from, To: to}]
	return ok
}

// Nodes returns all nodes in insertion order.
// The returned slice is a copy.
func (g *Graph[N]) Nodes() []N { return slices.Clone(g.order) }

// Edges returns all edges, grouped by source node in node insertion order
// and by edge insertion order within a source. The returned slice is a copy.
func (g *Graph[N]) Edges() []Edge[N] {
	edges := make([]Edge[N], 0, len(g.edges))
	for _, from := range g.order {
		for _, to := range g.outgoing[from] {
			edges = append(edges, Edge[N]{From: from, To: to})
		}
	}
	return edges
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph[N]) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph[N]) EdgeCount() int { return len(g.edges) }

// Children returns the targets of n's outgoing edges in insertion order.
// Returns nil if n has no children or doesn't exist. The returned slice is
// a copy.
func (g *Graph[N]) Children(n N) []N { return slices.Clone(g.outgoing[n]) }

// Parents returns the sources of n's incoming edges in insertion order.
// Returns nil if n has no parents or doesn't exist. The returned slice is
// a copy.
func (g *Graph[N]) Parents(n N) []N { return slices.Clone(g.incoming[n]) }

// OutDegree returns the number of outgoing edges from n.
func (g *Graph[N]) OutDegree(n N) int { return len(g.outgoing[n]) }

// InDegree returns the number of incoming edges to n.
func (g *Graph[N]) InDegree(n N) int { return len(g.incoming[n]) }

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph[N]) Sources() []N {
	var sources []N
	for _, n := range g.order {
		if len(g.incoming[n]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (g *Graph[N]) Sinks() []N {
	var sinks []N
	for _, n := range g.order {
		if len(g.outgoing[n]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Descendants returns every node reachable from n by a path of one or more
// edges, in breadth-first discovery order. n itself is included only if it
// lies on a cycle.
func (g *Graph[N]) Descendants(n N) []N {
	seen := make(map[N]struct{})
	var out []N
	queue := slices.Clone(g.outgoing[n])
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if _, ok := seen[curr]; ok {
			continue
		}
		seen[curr] = struct{}{}
		out = append(out, curr)
		queue = append(queue, g.outgoing[curr]...)
	}
	return out
}

// DescendantSet is [Graph.Descendants] as a set.
func (g *Graph[N]) DescendantSet(n N) map[N]struct{} {
	desc := g.Descendants(n)
	set := make(map[N]struct{}, len(desc))
	for _, d := range desc {
		set[d] = struct{}{}
	}
	return set
}

// Reaches reports whether there is a path of one or more edges from a to b.
func (g *Graph[N]) Reaches(a, b N) bool {
	seen := make(map[N]struct{})
	stack := slices.Clone(g.outgoing[a])
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr == b {
			return true
		}
		if _, ok := seen[curr]; ok {
			continue
		}
		seen[curr] = struct{}{}
		stack = append(stack, g.outgoing[curr]...)
	}
	return false
}

// Clone returns a deep copy of the graph structure. Node values are copied
// as values.
func (g *Graph[N]) Clone() *Graph[N] {
	c := New[N]()
	for _, n := range g.order {
		c.AddNode(n)
	}
	for _, e := range g.Edges() {
		c.AddEdge(e.From, e.To)
	}
	return c
}

// Validate returns ErrGraphHasCycle if the graph contains a directed cycle.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Graph[N]) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[N]int, len(g.order))
	var hasCycle bool

	var dfs func(n N)
	dfs = func(n N) {
		color[n] = gray
		for _, child := range g.outgoing[n] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[n] = black
	}

	for _, n := range g.order {
		if color[n] == white {
			dfs(n)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// PosMap creates a position lookup map from a slice of nodes.
// The returned map maps each node to its index in the slice.
func PosMap[N comparable](nodes []N) map[N]int {
	m := make(map[N]int, len(nodes))
	for i, n := range nodes {
		m[n] = i
	}
	return m
}
