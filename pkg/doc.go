// Package pkg provides the core libraries for fiberflow.
//
// # Overview
//
// Fiberflow decides which operations a tensor-algebra program needs when it
// is lowered to a loop nest over compressed fibers, and in which order they
// can be emitted. The pkg directory is organized into these areas:
//
//  1. [program] - The input: tensors, rank partitioning, loop order and
//     the rank cursors that track how a tensor is traversed
//  2. [ir] - The operations (nodes) that appear in the dependency graph
//  3. [dag] and [dag/transform] - Generic graph structure and transformations
//  4. [flow] - Graph building, pruning and constrained scheduling
//  5. [pipeline] - Orchestration (load → build → prune → schedule)
//
// # Architecture
//
// The typical data flow through fiberflow:
//
//	Program description (TOML / YAML / JSON)
//	         ↓
//	    [program] package (validate, partition, loop order)
//	         ↓
//	    [flow.Build] (raw dependency graph of [ir] nodes)
//	         ↓
//	    [flow.Prune] (contract tensor, rank and fiber bookkeeping)
//	         ↓
//	    [flow.Schedule] (topological order, loops at their required indices)
//
// # Quick Start
//
//	prog, _ := program.LoadProgram("matmul.toml")
//	plan, err := flow.Compile(prog)
//	if err != nil {
//	    return err
//	}
//	for _, n := range plan.Order {
//	    fmt.Println(n)
//	}
//
// # Supporting Packages
//
// [errors] defines coded errors (INVALID_PROGRAM, TENSOR_NOT_FOUND,
// INTERNAL_ERROR, ...). [observability] exposes hooks for compile events.
// [buildinfo] carries version data.
//
// [program]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/program
// [ir]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/ir
// [dag]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/dag/transform
// [flow]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/flow
// [flow.Build]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/flow#Build
// [flow.Prune]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/flow#Prune
// [flow.Schedule]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/flow#Schedule
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/fiberflow/pkg/buildinfo
package pkg
