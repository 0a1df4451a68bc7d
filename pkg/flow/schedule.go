package flow

import (
	"cmp"
	"slices"

	"github.com/matzehuels/fiberflow/pkg/dag"
	"github.com/matzehuels/fiberflow/pkg/errors"
	"github.com/matzehuels/fiberflow/pkg/ir"
)

// RequiredIndex returns the position a loop node must take in a schedule of
// g: as late as possible while still preceding all of its descendants,
// (total − 1) − |descendants|.
func RequiredIndex(g *dag.Graph[ir.Node], loop ir.Node) int {
	return g.NodeCount() - 1 - len(g.Descendants(loop))
}

// Schedule returns the total order of g's nodes that respects every edge
// and places every LoopNode at its [RequiredIndex].
//
// # Algorithm
//
// A loop at its required index has exactly its non-descendants before it.
// Such an order exists only if the loops form a chain, each one a
// descendant of the previous, which is what the builder's skeleton
// produces. Loops are therefore sorted by required index, and every other
// node is assigned to the layer given by how many loops it descends from.
// Each layer is topologically sorted on its own and the loops are placed
// between consecutive layers.
//
// Within a layer, ties are broken by graph insertion order. The result is
// the first satisfying order in the enumeration of [ScheduleExhaustive],
// computed in polynomial time.
//
// # Errors
//
// A graph with a cycle or with loops that do not nest cannot be scheduled.
// Both indicate a builder bug and are reported as ErrCodeInternal.
func Schedule(g *dag.Graph[ir.Node]) ([]ir.Node, error) {
	if err := g.Validate(); err != nil {
		return nil, errors.Internal("dependency graph has a cycle")
	}

	var loops []ir.Node
	required := make(map[ir.Node]int)
	for _, n := range g.Nodes() {
		if n.Kind() == ir.KindLoop {
			loops = append(loops, n)
			required[n] = RequiredIndex(g, n)
		}
	}
	slices.SortStableFunc(loops, func(a, b ir.Node) int { return cmp.Compare(required[a], required[b]) })

	desc := make([]map[ir.Node]struct{}, len(loops))
	for i, l := range loops {
		desc[i] = g.DescendantSet(l)
		if i == 0 {
			continue
		}
		if _, ok := desc[i-1][l]; !ok {
			return nil, errors.Internal("loops %s and %s do not nest", loops[i-1], l)
		}
	}

	depth := make(map[ir.Node]int, g.NodeCount())
	for _, d := range desc {
		for n := range d {
			depth[n]++
		}
	}

	order := make([]ir.Node, 0, g.NodeCount())
	for k := 0; k <= len(loops); k++ {
		if k > 0 {
			order = append(order, loops[k-1])
		}
		layer := g.Induced(func(n ir.Node) bool {
			return n.Kind() != ir.KindLoop && depth[n] == k
		})
		sorted, err := layer.TopologicalSort()
		if err != nil {
			return nil, errors.Internal("layer %d: %v", k, err)
		}
		order = append(order, sorted...)
	}

	if err := CheckSchedule(g, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ScheduleExhaustive returns the first topological order of g, in the
// enumeration order of [dag.Graph.TopologicalSorts], that places every loop
// at its required index.
//
// The enumeration is worst-case factorial in the size of g. It stops at the
// first match and serves as a reference for [Schedule] on small graphs.
func ScheduleExhaustive(g *dag.Graph[ir.Node]) ([]ir.Node, error) {
	required := make(map[ir.Node]int)
	for _, n := range g.Nodes() {
		if n.Kind() == ir.KindLoop {
			required[n] = RequiredIndex(g, n)
		}
	}

	for order := range g.TopologicalSorts() {
		if loopsPlaced(order, required) {
			return order, nil
		}
	}
	return nil, errors.Internal("no topological order places every loop at its required index")
}

func loopsPlaced(order []ir.Node, required map[ir.Node]int) bool {
	for i, n := range order {
		if want, ok := required[n]; ok && want != i {
			return false
		}
	}
	return true
}

// CheckSchedule verifies that order lists every node of g once, respects
// every edge and places each loop at its required index.
func CheckSchedule(g *dag.Graph[ir.Node], order []ir.Node) error {
	if !g.IsTopologicalOrder(order) {
		return errors.Internal("schedule of %d nodes is not a topological order of the %d-node graph", len(order), g.NodeCount())
	}
	for i, n := range order {
		if n.Kind() != ir.KindLoop {
			continue
		}
		if want := RequiredIndex(g, n); want != i {
			return errors.Internal("%s scheduled at %d, required at %d", n, i, want)
		}
	}
	return nil
}
