package dag

import (
	"iter"
	"slices"
)

// TopologicalSort returns the nodes in an order where every edge points
// forward, using Kahn's algorithm.
//
// Among the nodes ready at each step, the one inserted earliest is taken
// first, so the result is the lexicographically smallest topological order
// with respect to insertion order. Returns ErrGraphHasCycle if no order
// exists.
//
// Time complexity is O((N + E) log N).
func (g *Graph[N]) TopologicalSort() ([]N, error) {
	pos := PosMap(g.order)
	inDegree := make(map[N]int, len(g.order))
	var ready []int
	for i, n := range g.order {
		inDegree[n] = len(g.incoming[n])
		if inDegree[n] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]N, 0, len(g.order))
	for len(ready) > 0 {
		curr := g.order[ready[0]]
		ready = ready[1:]
		order = append(order, curr)

		for _, child := range g.outgoing[curr] {
			inDegree[child]--
			if inDegree[child] == 0 {
				idx := pos[child]
				at, _ := slices.BinarySearch(ready, idx)
				ready = slices.Insert(ready, at, idx)
			}
		}
	}

	if len(order) != len(g.order) {
		return nil, ErrGraphHasCycle
	}
	return order, nil
}

// TopologicalSorts enumerates every topological order of the graph.
//
// Orders are produced lazily in lexicographic order with respect to node
// insertion order: the first order yielded equals [Graph.TopologicalSort].
// The number of orders is worst-case factorial in the node count, so
// callers should stop the iteration as soon as they have what they need.
// A cyclic graph yields nothing.
//
// Each yielded slice is a separate allocation, safe to keep or modify.
// The graph must not be modified during iteration.
func (g *Graph[N]) TopologicalSorts() iter.Seq[[]N] {
	return func(yield func([]N) bool) {
		inDegree := make(map[N]int, len(g.order))
		for _, n := range g.order {
			inDegree[n] = len(g.incoming[n])
		}
		placed := make(map[N]bool, len(g.order))
		prefix := make([]N, 0, len(g.order))

		var walk func() bool
		walk = func() bool {
			if len(prefix) == len(g.order) {
				return yield(slices.Clone(prefix))
			}
			for _, n := range g.order {
				if placed[n] || inDegree[n] != 0 {
					continue
				}
				placed[n] = true
				prefix = append(prefix, n)
				for _, c := range g.outgoing[n] {
					inDegree[c]--
				}

				more := walk()

				for _, c := range g.outgoing[n] {
					inDegree[c]++
				}
				prefix = prefix[:len(prefix)-1]
				placed[n] = false
				if !more {
					return false
				}
			}
			return true
		}
		walk()
	}
}

// IsTopologicalOrder reports whether order lists every node of g exactly
// once with every edge pointing forward.
func (g *Graph[N]) IsTopologicalOrder(order []N) bool {
	if len(order) != len(g.order) {
		return false
	}
	pos := PosMap(order)
	if len(pos) != len(order) {
		return false
	}
	for _, n := range g.order {
		if _, ok := pos[n]; !ok {
			return false
		}
	}
	for e := range g.edges {
		if pos[e.From] >= pos[e.To] {
			return false
		}
	}
	return true
}

// Induced returns the subgraph induced by the nodes for which keep returns
// true. Insertion order of nodes and edges is preserved.
func (g *Graph[N]) Induced(keep func(N) bool) *Graph[N] {
	sub := New[N]()
	for _, n := range g.order {
		if keep(n) {
			sub.AddNode(n)
		}
	}
	for _, n := range sub.order {
		for _, c := range g.outgoing[n] {
			if sub.HasNode(c) {
				sub.AddEdge(n, c)
			}
		}
	}
	return sub
}
