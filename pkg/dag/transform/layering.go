package transform

import "github.com/matzehuels/fiberflow/pkg/dag"

// AssignLayers returns the longest-path depth of every node.
//
// Source nodes (no incoming edges) are at layer 0 and every other node sits
// one below the deepest of its parents, so every edge points to a strictly
// deeper layer.
//
// # Algorithm
//
// AssignLayers performs a topological traversal (Kahn's algorithm):
//  1. Initialize all source nodes at layer 0 and add them to the queue
//  2. Process the queue: push each child to max(current + 1)
//  3. Decrement in-degree counters; enqueue newly zero-degree nodes
//
// # Cycles
//
// Nodes on a cycle never reach zero in-degree and keep layer 0.
//
// # Performance
//
// Time complexity is O(V + E).
func AssignLayers[N comparable](g *dag.Graph[N]) map[N]int {
	nodes := g.Nodes()
	inDegree := make(map[N]int, len(nodes))
	layers := make(map[N]int, len(nodes))
	queue := make([]N, 0, len(nodes))

	for _, n := range nodes {
		layers[n] = 0
		degree := g.InDegree(n)
		inDegree[n] = degree
		if degree == 0 {
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if layer := layers[curr] + 1; layer > layers[child] {
				layers[child] = layer
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return layers
}
