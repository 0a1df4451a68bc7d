// Package flow decides which operations a program needs and in what order.
//
// # Overview
//
// Lowering a tensor-algebra program to a loop nest over fibers involves
// many small operations: partitioning ranks, swizzling a tensor's ranks and
// taking its root fiber, iterating loops, and re-rooting a tensor after a
// dynamic partition. Their valid orders are captured in a dependency graph
// of [ir.Node] values, processed in three stages:
//
//  1. [Build] wires the raw graph, including bookkeeping tensor, rank and
//     fiber nodes that only carry dataflow.
//  2. [Prune] contracts the bookkeeping nodes away while keeping every
//     dependency they mediated.
//  3. [Schedule] linearizes the pruned graph, placing each loop at its
//     required index.
//
// [Compile] runs all three.
//
// # Leaders
//
// A dynamic partition is computed once, by its leader tensor. Every other
// tensor sharing the partitioned rank gets an edge from the leader's fiber
// after the split into its own PartNode, so followers reuse the split points
// instead of recomputing them.
//
// # Verifying Schedules
//
// [ScheduleExhaustive] enumerates topological orders until one satisfies
// every loop position. It is exponential and only meant as a reference;
// [CheckSchedule] validates any proposed order.
//
// [ir.Node]: github.com/matzehuels/fiberflow/pkg/ir
package flow
