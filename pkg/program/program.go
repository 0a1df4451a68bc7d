package program

import (
	"slices"

	"github.com/matzehuels/fiberflow/pkg/errors"
)

// Program is a validated tensor-algebra program: its declared tensors, the
// output tensor, the global loop order and the partitioning rules.
//
// A Program is immutable once created and safe for concurrent reads.
type Program struct {
	tensors []Tensor
	index   map[string]int
	output  string
	loop    LoopOrder
	part    *Partitioning
}

// New validates the inputs and returns a program.
//
// Validation rules:
//   - Tensor names and rank ids are identifiers; tensor names are unique and
//     a tensor lists each rank once
//   - The output tensor is declared
//   - The loop order is non-empty, duplicate-free and contains no rank that
//     gets partitioned away
//   - Every declared rank appears in the loop order, or all of its final
//     partition ranks do
//   - Partitioned ranks are declared by some tensor, and no derived rank
//     name collides with a declared one
//   - Every leader is declared and carries the rank it partitions
//
// part may be nil for a program without partitioning.
func New(tensors []Tensor, output string, loopOrder []string, part *Partitioning) (*Program, error) {
	if part == nil {
		part = NewPartitioning()
	}
	p := &Program{
		tensors: slices.Clone(tensors),
		index:   make(map[string]int, len(tensors)),
		output:  output,
		loop:    newLoopOrder(loopOrder, part),
		part:    part,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) validate() error {
	if len(p.tensors) == 0 {
		return errors.New(errors.ErrCodeInvalidProgram, "no tensors declared")
	}
	declared := make(map[string]struct{})
	for i, t := range p.tensors {
		if err := errors.ValidateTensorName(t.root); err != nil {
			return err
		}
		if _, dup := p.index[t.root]; dup {
			return errors.New(errors.ErrCodeInvalidTensor, "duplicate tensor name: %q", t.root)
		}
		p.index[t.root] = i
		for _, r := range t.ranks {
			if err := errors.ValidateRankID(r); err != nil {
				return errors.New(errors.ErrCodeInvalidRank, "tensor %s: %s", t.root, errors.UserMessage(err))
			}
			declared[r] = struct{}{}
		}
		if err := errors.ValidateUnique(errors.ErrCodeInvalidTensor, "rank in tensor "+t.root, t.ranks); err != nil {
			return err
		}
	}
	if _, ok := p.index[p.output]; !ok {
		return errors.New(errors.ErrCodeTensorNotFound, "output tensor %q is not declared", p.output)
	}

	if p.loop.Len() == 0 {
		return errors.New(errors.ErrCodeInvalidProgram, "loop order is empty")
	}
	for _, r := range p.loop.ranks {
		if err := errors.ValidateRankID(r); err != nil {
			return err
		}
		if p.part.IsPartitioned(r) {
			return errors.New(errors.ErrCodeInvalidProgram, "loop order lists %s, which is partitioned into %v", r, p.mustNames(r))
		}
	}
	if err := errors.ValidateUnique(errors.ErrCodeInvalidProgram, "rank in loop order", p.loop.ranks); err != nil {
		return err
	}

	for _, r := range p.part.Ranks() {
		if _, ok := declared[r]; !ok {
			return errors.New(errors.ErrCodeRankNotFound, "partitioned rank %s is not declared by any tensor", r)
		}
		for _, name := range append(p.mustNames(r), p.part.Intermediates(r)...) {
			if _, ok := declared[name]; ok {
				return errors.New(errors.ErrCodeInvalidPartition, "rank %s: derived rank %s is also declared by a tensor", r, name)
			}
		}
		for _, s := range p.part.Steps(r) {
			if !s.Dynamic() {
				continue
			}
			leader, ok := p.Tensor(s.Leader)
			if !ok {
				return errors.New(errors.ErrCodeTensorNotFound, "rank %s: leader tensor %q is not declared", r, s.Leader)
			}
			if !leader.HasRank(r) {
				return errors.New(errors.ErrCodeInvalidPartition, "rank %s: leader tensor %s does not have rank %s", r, s.Leader, r)
			}
		}
	}

	for _, t := range p.tensors {
		for _, r := range t.ranks {
			if err := p.checkLoopCoverage(t, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkLoopCoverage ensures every rank the tensor will ever hold has a loop.
func (p *Program) checkLoopCoverage(t Tensor, rank string) error {
	need := []string{rank}
	if p.part.IsPartitioned(rank) {
		need = p.mustNames(rank)
	}
	for _, r := range need {
		if _, ok := p.loop.Position(r); !ok {
			return errors.New(errors.ErrCodeRankNotFound, "tensor %s: rank %s does not appear in the loop order %v", t.root, r, p.loop.ranks)
		}
	}
	return nil
}

func (p *Program) mustNames(rank string) []string {
	names, _ := p.part.PartitionNames(rank, true)
	return names
}

// Tensors returns the declared tensors in declaration order.
func (p *Program) Tensors() []Tensor { return slices.Clone(p.tensors) }

// Tensor looks up a declared tensor by name.
func (p *Program) Tensor(name string) (Tensor, bool) {
	i, ok := p.index[name]
	if !ok {
		return Tensor{}, false
	}
	return p.tensors[i], true
}

// Output returns the output tensor.
func (p *Program) Output() Tensor { return p.tensors[p.index[p.output]] }

// LoopOrder returns the global loop order.
func (p *Program) LoopOrder() LoopOrder { return p.loop }

// Partitioning returns the partitioning rules.
func (p *Program) Partitioning() *Partitioning { return p.part }

// Cursor returns a fresh cursor for t with the output flag set when t is
// the output tensor.
func (p *Program) Cursor(t Tensor) Cursor {
	return NewCursor(t).WithOutput(t.root == p.output)
}

// PartitionNames returns the ranks rank is split into; see
// [Partitioning.PartitionNames].
func (p *Program) PartitionNames(rank string, all bool) ([]string, error) {
	return p.part.PartitionNames(rank, all)
}

// ApplyPartitioning applies the one step that splits rank, replacing rank
// in the cursor's pending ranks with the step's two destinations.
func (p *Program) ApplyPartitioning(c Cursor, rank string) (Cursor, error) {
	pending := c.Pending()
	i := slices.Index(pending, rank)
	if i < 0 {
		return c, errors.New(errors.ErrCodeRankNotFound, "tensor %s: rank %s is not pending (pending %v)", c, rank, pending)
	}
	dests, err := p.part.PartitionNames(rank, false)
	if err != nil {
		return c, errors.New(errors.ErrCodePartitionNotFound, "tensor %s: %s", c, errors.UserMessage(err))
	}
	pending = slices.Replace(pending, i, i+1, dests...)
	return c.withPending(pending), nil
}

// ApplyAllPartitioning applies partitioning steps until no pending rank of
// the cursor is partitioned any more.
func (p *Program) ApplyAllPartitioning(c Cursor) (Cursor, error) {
	for {
		i := slices.IndexFunc(c.Pending(), p.part.IsPartitioned)
		if i < 0 {
			return c, nil
		}
		var err error
		if c, err = p.ApplyPartitioning(c, c.Pending()[i]); err != nil {
			return c, err
		}
	}
}
