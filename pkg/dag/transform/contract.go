package transform

import "github.com/matzehuels/fiberflow/pkg/dag"

// Contract removes every node for which remove returns true and returns the
// number of nodes removed.
//
// Before a node is deleted, each of its current parents is connected to each
// of its current children, so for any two surviving nodes u and v, v is
// reachable from u after contraction exactly when it was before. Nodes are
// processed in insertion order; bridges that would be self loops are skipped.
//
// # Nil Handling
//
// Contract panics if g is nil.
//
// # Performance
//
// Each removal costs O(in·out) edge insertions. Contracting a long chain of
// removable nodes can therefore add quadratically many edges in the worst
// case; in practice the removed nodes have small fan-in and fan-out.
func Contract[N comparable](g *dag.Graph[N], remove func(N) bool) int {
	var removed int
	for _, n := range g.Nodes() {
		if !remove(n) {
			continue
		}
		parents := g.Parents(n)
		children := g.Children(n)
		for _, p := range parents {
			if p == n {
				continue
			}
			for _, c := range children {
				if c == n || c == p {
					continue
				}
				g.AddEdge(p, c)
			}
		}
		g.RemoveNode(n)
		removed++
	}
	return removed
}
