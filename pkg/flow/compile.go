package flow

import (
	"fmt"

	"github.com/matzehuels/fiberflow/pkg/dag"
	"github.com/matzehuels/fiberflow/pkg/ir"
	"github.com/matzehuels/fiberflow/pkg/program"
)

// Plan is the result of compiling a program: the pruned dependency graph
// and the statement order handed to code emission.
type Plan struct {
	Graph   *dag.Graph[ir.Node]
	Order   []ir.Node
	Removed int // bookkeeping nodes removed by Prune
}

// Compile builds, prunes and schedules p.
func Compile(p *program.Program) (*Plan, error) {
	g, err := Build(p)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	removed := Prune(g)
	order, err := Schedule(g)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return &Plan{Graph: g, Order: order, Removed: removed}, nil
}
