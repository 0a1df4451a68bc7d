package transform

import "github.com/matzehuels/fiberflow/pkg/dag"

// TransitiveReduction removes redundant edges from the graph.
//
// TransitiveReduction removes any edge (u, v) where there exists an alternate
// path from u to v through at least one intermediate node. For example, if
// edges A→B, B→C, and A→C all exist, then A→C is removed because A reaches C
// via B. It returns the number of edges removed.
//
// # Algorithm
//
// TransitiveReduction computes full transitive closure using DFS-based
// reachability, then removes any edge (u, v) where u can reach v through an
// intermediate node w (where u→w and w reaches v).
//
// # Cycles
//
// The result is only well defined on acyclic graphs; run [dag.Graph.Validate]
// first if the input may contain cycles.
//
// # Performance
//
// Time complexity is O(V·E) for the closure plus O(E·deg) for the sweep.
// Space complexity is O(V²) for the reachability matrix.
func TransitiveReduction[N comparable](g *dag.Graph[N]) int {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}

	index := dag.PosMap(nodes)
	adjacency := make([][]int, len(nodes))
	for _, e := range g.Edges() {
		adjacency[index[e.From]] = append(adjacency[index[e.From]], index[e.To])
	}

	reachability := computeReachability(adjacency)

	var removed int
	for _, e := range g.Edges() {
		src, dst := index[e.From], index[e.To]
		for _, mid := range adjacency[src] {
			if mid != dst && mid != src && reachability[mid][dst] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
