package flow

import (
	"github.com/matzehuels/fiberflow/pkg/dag"
	"github.com/matzehuels/fiberflow/pkg/dag/transform"
	"github.com/matzehuels/fiberflow/pkg/ir"
)

// Prune removes the bookkeeping nodes (tensor, rank and fiber nodes and the
// StartLoop anchor) from g in place and returns how many were removed.
//
// Every dependency a removed node mediated is kept as a direct edge, so
// among the surviving nodes reachability is unchanged.
func Prune(g *dag.Graph[ir.Node]) int {
	return transform.Contract(g, ir.Node.Bookkeeping)
}
