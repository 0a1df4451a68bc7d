// Package dag provides a generic directed graph used to order compiler
// operations.
//
// # Overview
//
// fiberflow decides which abstract operations a tensor-algebra program needs
// and in what order they must run. That decision is made on a dependency
// graph whose vertices are [ir.Node] values: an edge A → B means "A must
// happen before B". This package provides the graph itself, independent of
// the vertex type.
//
// # Basic Usage
//
// Create a new graph with [New] and add edges with [Graph.AddEdge]; missing
// endpoints are created on the fly and re-adding an edge is a no-op:
//
//	g := dag.New[string]()
//	g.AddEdge("load", "split")
//	g.AddEdge("split", "loop")
//	g.AddEdge("load", "split") // no effect
//
// Query the structure with [Graph.Children], [Graph.Parents],
// [Graph.Descendants] and [Graph.Reaches]; delete vertices with
// [Graph.RemoveNode]. Use [Graph.Validate] to check acyclicity.
//
// # Determinism
//
// Nodes, children and parents keep insertion order, and every traversal
// follows it. Building the same graph twice therefore yields identical
// node lists, edge lists and topological orders.
//
// # Topological Orders
//
// [Graph.TopologicalSort] returns the stable Kahn order. [Graph.TopologicalSorts]
// lazily enumerates every valid linearization in lexicographic order; it is
// worst-case factorial and intended for small graphs and for checking
// constructive schedulers against a brute-force reference.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
//
// # Related Packages
//
// The [transform] subpackage provides in-place graph rewrites such as node
// contraction that preserves reachability.
//
// [transform]: github.com/matzehuels/fiberflow/pkg/dag/transform
// [ir.Node]: github.com/matzehuels/fiberflow/pkg/ir
package dag
