package program

import (
	"fmt"
	"slices"

	"github.com/matzehuels/fiberflow/pkg/errors"
)

// StepKind names a partitioning policy.
type StepKind string

const (
	// UniformShape splits a rank into tiles of a fixed coordinate extent.
	UniformShape StepKind = "uniform_shape"
	// NWayShape splits a rank's coordinate space into a fixed number of parts.
	NWayShape StepKind = "nway_shape"
	// UniformOccupancy splits a rank into tiles holding a fixed number of
	// nonzeros. The split points depend on the leader tensor's data, so the
	// partition is only known once the loop nest reaches the rank.
	UniformOccupancy StepKind = "uniform_occupancy"
)

// Valid reports whether k is a known step kind.
func (k StepKind) Valid() bool {
	switch k {
	case UniformShape, NWayShape, UniformOccupancy:
		return true
	}
	return false
}

// Dynamic reports whether steps of this kind are resolved at loop time.
func (k StepKind) Dynamic() bool { return k == UniformOccupancy }

// Step is one application of a partitioning policy to a rank.
type Step struct {
	Kind StepKind
	// Size is the tile extent (uniform_shape), the number of parts
	// (nway_shape) or the tile occupancy (uniform_occupancy).
	Size int
	// Leader is the tensor whose fiber decides the split points of a
	// dynamic step. Empty for static steps.
	Leader string
}

// Dynamic reports whether the step is resolved at loop time.
func (s Step) Dynamic() bool { return s.Kind.Dynamic() }

func (s Step) String() string {
	if s.Leader != "" {
		return fmt.Sprintf("%s(%s, %d)", s.Kind, s.Leader, s.Size)
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.Size)
}

// split records how one rank (declared or intermediate) is divided.
type split struct {
	root  string // declared rank the chain starts from
	index int    // 0-based step index
	dests [2]string
	step  Step
}

// Partitioning holds the partitioning rules of a program.
//
// A rank K partitioned by n steps is split into the final ranks
// K{n} … K1 K0. The first step splits K into (K{n}, K{n-1}I), every
// following step splits the intermediate produced by the previous one, and
// the last step yields (K1, K0):
//
//	K   → (K2, K1I)
//	K1I → (K1, K0)
//
// The zero value holds no rules and is ready to use.
type Partitioning struct {
	ranks  []string
	steps  map[string][]Step
	splits map[string]split
}

// NewPartitioning returns an empty rule set.
func NewPartitioning() *Partitioning { return &Partitioning{} }

// Add registers the steps that partition rank. Steps must all be static or
// all be dynamic; a rank can be added once.
func (p *Partitioning) Add(rank string, steps ...Step) error {
	if err := errors.ValidateRankID(rank); err != nil {
		return err
	}
	if len(steps) == 0 {
		return errors.New(errors.ErrCodeInvalidPartition, "rank %s: no partitioning steps", rank)
	}
	if _, ok := p.steps[rank]; ok {
		return errors.New(errors.ErrCodeInvalidPartition, "rank %s: partitioned twice", rank)
	}
	if origin, ok := p.Origin(rank); ok {
		return errors.New(errors.ErrCodeInvalidPartition, "rank %s: already produced by the partition of %s", rank, origin)
	}

	dynamic := steps[0].Dynamic()
	for i, s := range steps {
		if !s.Kind.Valid() {
			return errors.New(errors.ErrCodeInvalidPartition, "rank %s step %d: unknown kind %q", rank, i+1, s.Kind)
		}
		if s.Size <= 0 {
			return errors.New(errors.ErrCodeInvalidPartition, "rank %s step %d: size must be positive, got %d", rank, i+1, s.Size)
		}
		if s.Dynamic() != dynamic {
			return errors.New(errors.ErrCodeInvalidPartition, "rank %s: mixes static and dynamic steps", rank)
		}
		if s.Dynamic() && s.Leader == "" {
			return errors.New(errors.ErrCodeInvalidPartition, "rank %s step %d: %s needs a leader tensor", rank, i+1, s.Kind)
		}
		if !s.Dynamic() && s.Leader != "" {
			return errors.New(errors.ErrCodeInvalidPartition, "rank %s step %d: %s takes no leader", rank, i+1, s.Kind)
		}
	}

	chain := splitChain(rank, steps)
	for _, sp := range chain {
		for _, d := range sp.dests {
			_, derived := p.Origin(d)
			if derived || p.steps[d] != nil {
				return errors.New(errors.ErrCodeInvalidPartition, "rank %s: derived rank %s collides with another partition", rank, d)
			}
		}
	}

	if p.steps == nil {
		p.steps = make(map[string][]Step)
		p.splits = make(map[string]split)
	}
	p.ranks = append(p.ranks, rank)
	p.steps[rank] = slices.Clone(steps)
	for src, sp := range chain {
		p.splits[src] = sp
	}
	return nil
}

// splitChain derives the source and destination names of every step.
func splitChain(rank string, steps []Step) map[string]split {
	n := len(steps)
	chain := make(map[string]split, n)
	src := rank
	for i, s := range steps {
		outer := fmt.Sprintf("%s%d", rank, n-i)
		inner := fmt.Sprintf("%s%dI", rank, n-i-1)
		if i == n-1 {
			inner = rank + "0"
		}
		chain[src] = split{root: rank, index: i, dests: [2]string{outer, inner}, step: s}
		src = inner
	}
	return chain
}

// Ranks returns the partitioned ranks in the order they were added.
func (p *Partitioning) Ranks() []string { return slices.Clone(p.ranks) }

// Steps returns the steps that partition rank, or nil.
func (p *Partitioning) Steps(rank string) []Step { return slices.Clone(p.steps[rank]) }

// IsPartitioned reports whether rank is split by some step. Intermediate
// ranks count.
func (p *Partitioning) IsPartitioned(rank string) bool {
	_, ok := p.splits[rank]
	return ok
}

// IsStatic reports whether rank is split by a static step.
func (p *Partitioning) IsStatic(rank string) bool {
	sp, ok := p.splits[rank]
	return ok && !sp.step.Dynamic()
}

// IsDynamic reports whether rank is split by a dynamic step.
func (p *Partitioning) IsDynamic(rank string) bool {
	sp, ok := p.splits[rank]
	return ok && sp.step.Dynamic()
}

// StaticRanks returns the declared ranks with static partitioning.
func (p *Partitioning) StaticRanks() []string {
	return slices.DeleteFunc(p.Ranks(), func(r string) bool { return !p.IsStatic(r) })
}

// DynamicRanks returns the declared ranks with dynamic partitioning.
func (p *Partitioning) DynamicRanks() []string {
	return slices.DeleteFunc(p.Ranks(), func(r string) bool { return !p.IsDynamic(r) })
}

// Intermediates returns the ranks introduced between rank and its final
// ranks, outermost first: K2I, K1I for a three-step partition of K. Only
// defined for ranks passed to [Partitioning.Add].
func (p *Partitioning) Intermediates(rank string) []string {
	steps := p.steps[rank]
	var out []string
	for i := len(steps) - 1; i >= 1; i-- {
		out = append(out, fmt.Sprintf("%s%dI", rank, i))
	}
	return out
}

// Leader returns the leader tensor of the step splitting rank. It is empty
// for static steps and unpartitioned ranks.
func (p *Partitioning) Leader(rank string) string {
	return p.splits[rank].step.Leader
}

// Step returns the step splitting rank.
func (p *Partitioning) Step(rank string) (Step, bool) {
	sp, ok := p.splits[rank]
	return sp.step, ok
}

// Origin returns the declared rank whose partition produced rank, and
// whether rank is a derived rank at all.
func (p *Partitioning) Origin(rank string) (string, bool) {
	for _, r := range p.ranks {
		if slices.Contains(p.finalNames(r), rank) || slices.Contains(p.Intermediates(r), rank) {
			return r, true
		}
	}
	return "", false
}

// PartitionNames returns the ranks rank is split into. With all unset it
// returns the two destinations of the single step splitting rank; with all
// set it returns every final rank derived from rank, outermost first.
func (p *Partitioning) PartitionNames(rank string, all bool) ([]string, error) {
	sp, ok := p.splits[rank]
	if !ok {
		return nil, errors.New(errors.ErrCodePartitionNotFound, "rank %s is not partitioned", rank)
	}
	if !all {
		return []string{sp.dests[0], sp.dests[1]}, nil
	}
	final := p.finalNames(sp.root)
	return final[sp.index:], nil
}

// finalNames returns K{n} … K0 for a declared partitioned rank.
func (p *Partitioning) finalNames(rank string) []string {
	n := len(p.steps[rank])
	if n == 0 {
		return nil
	}
	names := make([]string, 0, n+1)
	for i := n; i >= 0; i-- {
		names = append(names, fmt.Sprintf("%s%d", rank, i))
	}
	return names
}
