package pipeline

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/fiberflow/pkg/errors"
	"github.com/matzehuels/fiberflow/pkg/flow"
	"github.com/matzehuels/fiberflow/pkg/observability"
	"github.com/matzehuels/fiberflow/pkg/program"
)

// Runner executes the compile pipeline.
//
// The Runner is stateless except for the logger - it doesn't store results.
// Multiple goroutines can safely use the same Runner with different programs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, output is discarded.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Logger: logger}
}

// Load reads and validates a program description.
func (r *Runner) Load(ctx context.Context, path string) (*program.Program, error) {
	start := time.Now()
	format, _ := program.FormatFromPath(path)
	prog, err := program.LoadProgram(path)
	observability.Load().OnLoad(ctx, path, string(format), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	out := prog.Output()
	r.Logger.Debug("loaded program",
		"path", path,
		"tensors", len(prog.Tensors()),
		"output", out.Root(),
		"loop_order", prog.LoopOrder().Ranks())
	return prog, nil
}

// Compile runs build → prune → schedule on prog.
func (r *Runner) Compile(ctx context.Context, prog *program.Program, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.SetDefaults()

	hooks := observability.Compile()
	result := &Result{ID: uuid.New(), Program: prog}
	run := result.ID.String()
	logger := r.Logger.With("run", run[:8])

	// Stage 1: Build
	hooks.OnBuildStart(ctx, run, len(prog.Tensors()))
	buildStart := time.Now()
	g, err := flow.Build(prog)
	result.Stats.BuildTime = time.Since(buildStart)
	if err != nil {
		hooks.OnBuildComplete(ctx, run, 0, 0, result.Stats.BuildTime, err)
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Stats.RawNodes = g.NodeCount()
	result.Stats.RawEdges = g.EdgeCount()
	hooks.OnBuildComplete(ctx, run, g.NodeCount(), g.EdgeCount(), result.Stats.BuildTime, nil)
	if opts.KeepRaw {
		result.Raw = g.Clone()
	}

	logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Prune
	pruneStart := time.Now()
	result.Stats.Removed = flow.Prune(g)
	result.Stats.PruneTime = time.Since(pruneStart)
	result.Stats.Nodes = g.NodeCount()
	result.Stats.Edges = g.EdgeCount()
	result.Graph = g
	hooks.OnPruneComplete(ctx, run, result.Stats.Removed, g.NodeCount(), result.Stats.PruneTime)

	logger.Info("pruned graph",
		"removed", result.Stats.Removed,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.PruneTime)

	// Stage 3: Schedule
	scheduleStart := time.Now()
	order, err := flow.Schedule(g)
	result.Stats.ScheduleTime = time.Since(scheduleStart)
	hooks.OnScheduleComplete(ctx, run, len(order), result.Stats.ScheduleTime, err)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	result.Order = order

	logger.Info("scheduled",
		"length", len(order),
		"duration", result.Stats.ScheduleTime)

	if opts.Verify {
		verified, err := r.verify(logger, result, opts.VerifyLimit)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		result.Stats.Verified = verified
	}

	return result, nil
}

// verify re-checks the schedule. It reports whether the exhaustive
// reference order was computed and matched.
func (r *Runner) verify(logger *log.Logger, result *Result, limit int) (bool, error) {
	if err := flow.CheckSchedule(result.Graph, result.Order); err != nil {
		return false, err
	}
	if result.Graph.NodeCount() > limit {
		logger.Debug("skipping exhaustive check",
			"nodes", result.Graph.NodeCount(),
			"limit", limit)
		return false, nil
	}

	start := time.Now()
	want, err := flow.ScheduleExhaustive(result.Graph)
	if err != nil {
		return false, err
	}
	if !slices.Equal(want, result.Order) {
		i := firstDiff(want, result.Order)
		return false, errors.Internal("schedule differs from exhaustive reference at %d: %s != %s", i, result.Order[i], want[i])
	}
	logger.Debug("verified against exhaustive reference", "duration", time.Since(start))
	return true, nil
}

func firstDiff[T comparable](a, b []T) int {
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return i
		}
	}
	return min(len(a), len(b))
}
