package program

import (
	"slices"
	"strings"
)

// Tensor is a declared tensor: a root name and its ranks in declaration
// order. Tensors are immutable; the evolving per-compilation rank state
// lives in a [Cursor].
type Tensor struct {
	root  string
	ranks []string
}

// NewTensor creates a tensor declaration. The ranks slice is copied.
func NewTensor(root string, ranks ...string) Tensor {
	return Tensor{root: root, ranks: slices.Clone(ranks)}
}

// Root returns the tensor's name.
func (t Tensor) Root() string { return t.root }

// Ranks returns the declared ranks. The returned slice is a copy.
func (t Tensor) Ranks() []string { return slices.Clone(t.ranks) }

// HasRank reports whether rank is one of the declared ranks.
func (t Tensor) HasRank(rank string) bool { return slices.Contains(t.ranks, rank) }

// String renders the declaration as "A[K, M]".
func (t Tensor) String() string {
	return t.root + "[" + strings.Join(t.ranks, ", ") + "]"
}
