// Package transform provides in-place rewrites of a [dag.Graph].
//
// # Overview
//
// The dependency graph built for a program carries bookkeeping vertices that
// exist only to route ordering constraints. Before scheduling, those vertices
// are contracted away; afterwards the graph may be reduced or layered for
// display. Every function here mutates or inspects the graph passed in and
// is generic over the vertex type.
//
// # Contraction
//
// [Contract] removes every vertex matching a predicate while preserving
// reachability among the survivors: for each removed vertex, each parent is
// connected to each child before the vertex is deleted. A chain a → x → b
// becomes a → b.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes any edge implied by a longer path. If A→B,
// B→C and A→C all exist, A→C is dropped. The reachability relation is
// unchanged, which makes it safe to apply before rendering a graph for a
// human reader.
//
// # Layer Assignment
//
// [AssignLayers] computes the longest-path depth of every vertex from the
// sources of the graph.
//
// [dag.Graph]: github.com/matzehuels/fiberflow/pkg/dag
package transform
