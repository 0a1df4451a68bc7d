// Package pipeline provides the compile pipeline shared by the CLI and
// library callers.
//
// This package runs the load → build → prune → schedule stages of [flow]
// with logging, timing and observability hooks, so every entry point reports
// the same way.
//
// # Architecture
//
// The pipeline consists of three compile stages:
//
//  1. Build: wire the raw dependency graph of a validated program
//  2. Prune: contract bookkeeping nodes
//  3. Schedule: linearize the pruned graph with every loop at its required index
//
// Loading a program file is a separate step ([Runner.Load]) because callers
// often construct programs in code.
//
// # Usage
//
// Create a Runner and compile a program:
//
//	runner := pipeline.NewRunner(logger)
//	prog, err := runner.Load(ctx, "matmul.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Compile(ctx, prog, pipeline.Options{Verify: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, n := range result.Order {
//	    fmt.Println(n)
//	}
//
// [flow]: github.com/matzehuels/fiberflow/pkg/flow
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fiberflow/pkg/dag"
	"github.com/matzehuels/fiberflow/pkg/ir"
	"github.com/matzehuels/fiberflow/pkg/program"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultVerifyLimit is the largest pruned graph, in nodes, that
	// verification cross-checks against the exhaustive scheduler. Larger
	// graphs are only checked with flow.CheckSchedule.
	DefaultVerifyLimit = 16
)

// =============================================================================
// Options
// =============================================================================

// Options controls a single compilation.
type Options struct {
	// KeepRaw retains a copy of the unpruned graph in Result.Raw.
	KeepRaw bool

	// Verify re-checks the schedule after compilation. Graphs of at most
	// VerifyLimit nodes are compared with the exhaustive reference order.
	Verify      bool
	VerifyLimit int
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.VerifyLimit <= 0 {
		o.VerifyLimit = DefaultVerifyLimit
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a compilation.
type Result struct {
	// ID identifies this run in logs and hook events.
	ID uuid.UUID

	// Program is the compiled program.
	Program *program.Program

	// Raw is the graph before pruning; nil unless Options.KeepRaw is set.
	Raw *dag.Graph[ir.Node]

	// Graph is the pruned dependency graph.
	Graph *dag.Graph[ir.Node]

	// Order is the schedule of Graph.
	Order []ir.Node

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RawNodes int
	RawEdges int
	Nodes    int
	Edges    int
	Removed  int

	BuildTime    time.Duration
	PruneTime    time.Duration
	ScheduleTime time.Duration

	// Verified is set when the schedule matched the exhaustive reference.
	Verified bool
}
