package flow

import (
	"github.com/matzehuels/fiberflow/pkg/dag"
	"github.com/matzehuels/fiberflow/pkg/errors"
	"github.com/matzehuels/fiberflow/pkg/ir"
	"github.com/matzehuels/fiberflow/pkg/program"
)

// Build constructs the raw dependency graph of p.
//
// The graph starts from the fixed skeleton
//
//	Output → Graphics → StartLoop → Loop(r1) → … → Loop(rN) → Body → Footer
//
// and adds, tensor by tensor in declaration order, the rank, partitioning,
// root-fiber and loop-nest wiring of that tensor. An edge A → B means A
// must be emitted before B.
//
// Build returns an error identifying the offending tensor or rank when p
// references a partition or leader that cannot be resolved. No partial
// graph is returned.
func Build(p *program.Program) (*dag.Graph[ir.Node], error) {
	b := &builder{
		prog: p,
		part: p.Partitioning(),
		loop: p.LoopOrder(),
		g:    dag.New[ir.Node](),
	}
	if err := b.skeleton(); err != nil {
		return nil, err
	}
	for _, t := range p.Tensors() {
		if err := b.tensor(t); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

type builder struct {
	prog *program.Program
	part *program.Partitioning
	loop program.LoopOrder
	g    *dag.Graph[ir.Node]
}

var (
	output    = ir.OtherNode(ir.AnchorOutput)
	graphics  = ir.OtherNode(ir.AnchorGraphics)
	startLoop = ir.OtherNode(ir.AnchorStartLoop)
	body      = ir.OtherNode(ir.AnchorBody)
	footer    = ir.OtherNode(ir.AnchorFooter)
)

func (b *builder) edge(from, to ir.Node) { b.g.AddEdge(from, to) }

func (b *builder) skeleton() error {
	b.edge(output, graphics)
	b.edge(graphics, startLoop)
	prev := startLoop
	for _, r := range b.loop.Ranks() {
		loop := ir.LoopNode(r)
		b.edge(prev, loop)
		prev = loop
	}
	b.edge(prev, body)
	b.edge(body, footer)

	// The output tensor is written in its fully partitioned form.
	out, err := b.prog.ApplyAllPartitioning(b.prog.Cursor(b.prog.Output()))
	if err != nil {
		return err
	}
	if out, err = b.loop.Apply(out); err != nil {
		return err
	}
	b.edge(output, ir.TensorNode(out.Root()))
	return nil
}

func (b *builder) tensor(t program.Tensor) error {
	root := t.Root()
	c := b.prog.Cursor(t)

	for _, rank := range t.Ranks() {
		b.edge(ir.TensorNode(root), ir.RankNode(root, rank))

		var err error
		switch {
		case b.part.IsStatic(rank):
			c, err = b.staticPartition(c, rank)
		case b.part.IsDynamic(rank):
			err = b.dynamicPartition(root, rank)
		}
		if err != nil {
			return err
		}
	}

	c, err := b.loop.Apply(c)
	if err != nil {
		return err
	}
	b.rootFiber(c)

	if c, err = b.loopNest(c); err != nil {
		return err
	}
	b.edge(ir.FiberNode(c.FiberName()), body)
	return nil
}

// staticPartition wires one PartNode for every step of rank and applies
// all of them to the cursor. Static partitions run before Graphics.
func (b *builder) staticPartition(c program.Cursor, rank string) (program.Cursor, error) {
	root := c.Root()
	part := ir.PartNode(root, rank)
	b.edge(ir.RankNode(root, rank), part)

	dests, err := b.prog.PartitionNames(rank, true)
	if err != nil {
		return c, err
	}
	for _, d := range dests {
		b.edge(part, ir.RankNode(root, d))
	}
	b.edge(part, graphics)

	for _, src := range append([]string{rank}, b.part.Intermediates(rank)...) {
		if c, err = b.prog.ApplyPartitioning(c, src); err != nil {
			return c, err
		}
	}
	return c, nil
}

// dynamicPartition wires the PartNode of rank and of each intermediate rank
// it introduces. Followers depend on the leader's fiber after the split.
func (b *builder) dynamicPartition(root, rank string) error {
	for _, src := range append([]string{rank}, b.part.Intermediates(rank)...) {
		part := ir.PartNode(root, src)
		b.edge(ir.RankNode(root, src), part)

		dests, err := b.prog.PartitionNames(src, false)
		if err != nil {
			return err
		}
		for _, d := range dests {
			b.edge(part, ir.RankNode(root, d))
		}

		leader := b.part.Leader(src)
		if leader == root {
			continue
		}
		if _, ok := b.prog.Tensor(leader); !ok {
			return errors.New(errors.ErrCodeTensorNotFound, "tensor %s rank %s: leader %q is not declared", root, src, leader)
		}
		b.edge(ir.FiberNode(program.FiberName(leader, dests[0])), part)
	}
	return nil
}

// rootFiber wires the swizzle-and-root step over the cursor's pending
// ranks.
func (b *builder) rootFiber(c program.Cursor) {
	root := c.Root()
	pending := c.Pending()
	sr := ir.SRNode(root, pending...)
	b.edge(ir.TensorNode(root), sr)
	b.edge(sr, ir.FiberNode(c.FiberName()))
	for _, r := range pending {
		b.edge(ir.RankNode(root, r), sr)
	}
}

// loopNest walks the pending ranks, threading the tensor's fiber through
// each loop. A dynamically partitioned rank is split on the spot and the
// tensor re-rooted before its first derived rank is iterated.
func (b *builder) loopNest(c program.Cursor) (program.Cursor, error) {
	root := c.Root()
	for !c.Exhausted() {
		rank, _ := c.Peek()

		if b.part.IsDynamic(rank) {
			ff := ir.FromFiberNode(root, rank)
			b.edge(ir.FiberNode(c.FiberName()), ff)
			b.edge(ff, ir.PartNode(root, rank))

			var err error
			if c, err = b.prog.ApplyPartitioning(c, rank); err != nil {
				return c, err
			}
			if c, err = b.loop.Apply(c); err != nil {
				return c, err
			}
			c = c.FromFiber()
			b.rootFiber(c)
			continue
		}

		cur := ir.FiberNode(c.FiberName())
		c, _, _ = c.Pop()
		loop := ir.LoopNode(rank)
		b.edge(cur, loop)
		b.edge(loop, ir.FiberNode(c.FiberName()))
	}
	return c, nil
}
