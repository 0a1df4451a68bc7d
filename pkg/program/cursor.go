package program

import (
	"slices"
	"strings"
)

// Cursor is the rank state of one tensor while a program is being lowered.
//
// A cursor holds the tensor's current rank list (declared ranks, possibly
// split by partitioning and reordered by the loop order) and a position
// into it. Ranks before the position have been consumed by enclosing loops;
// the rest are pending.
//
// Cursor is a value type. Every transition returns a new cursor and leaves
// the receiver untouched, so a builder can keep an earlier state around
// (for example a scratch copy of the output tensor) without aliasing.
type Cursor struct {
	root      string
	declared  []string
	ranks     []string
	pos       int
	output    bool
	fromFiber bool
}

// NewCursor returns a cursor positioned at the first declared rank of t.
func NewCursor(t Tensor) Cursor {
	return Cursor{
		root:     t.root,
		declared: t.ranks,
		ranks:    t.ranks,
	}
}

// Root returns the tensor's root name. It never changes across
// transitions.
func (c Cursor) Root() string { return c.root }

// Peek returns the next pending rank without consuming it. ok is false when
// the cursor is exhausted.
func (c Cursor) Peek() (rank string, ok bool) {
	if c.pos >= len(c.ranks) {
		return "", false
	}
	return c.ranks[c.pos], true
}

// Pop consumes the next pending rank and returns the advanced cursor. ok is
// false, and the cursor unchanged, when nothing is pending.
func (c Cursor) Pop() (next Cursor, rank string, ok bool) {
	rank, ok = c.Peek()
	if !ok {
		return c, "", false
	}
	c.pos++
	return c, rank, true
}

// Pending returns the ranks not yet consumed. The returned slice is a copy.
func (c Cursor) Pending() []string { return slices.Clone(c.ranks[c.pos:]) }

// Ranks returns the full current rank list, consumed ranks included.
func (c Cursor) Ranks() []string { return slices.Clone(c.ranks) }

// Exhausted reports whether every rank has been consumed.
func (c Cursor) Exhausted() bool { return c.pos >= len(c.ranks) }

// Reset restores the declared ranks and rewinds to the first one. The
// output flag is kept; the from-fiber mark is cleared.
func (c Cursor) Reset() Cursor {
	c.ranks = c.declared
	c.pos = 0
	c.fromFiber = false
	return c
}

// FromFiber marks the cursor as re-entered from an existing fiber, which
// happens after a dynamic partition splits a rank mid loop nest.
func (c Cursor) FromFiber() Cursor {
	c.fromFiber = true
	return c
}

// IsFromFiber reports whether [Cursor.FromFiber] was applied since the last
// reset.
func (c Cursor) IsFromFiber() bool { return c.fromFiber }

// WithOutput sets whether the cursor belongs to the program's output tensor.
func (c Cursor) WithOutput(output bool) Cursor {
	c.output = output
	return c
}

// IsOutput reports whether the cursor belongs to the output tensor.
func (c Cursor) IsOutput() bool { return c.output }

// FiberName returns the name of the fiber the generated code holds for this
// tensor in its current state: the lower-cased root joined with the next
// pending rank ("a_k1"). Once every rank is consumed the name refers to the
// element itself: "z_ref" for the output tensor, "a_val" otherwise.
func (c Cursor) FiberName() string {
	if rank, ok := c.Peek(); ok {
		return FiberName(c.root, rank)
	}
	if c.output {
		return strings.ToLower(c.root) + "_ref"
	}
	return strings.ToLower(c.root) + "_val"
}

// TensorName returns the root joined with the current rank list, e.g.
// "A_K1MK0". It identifies a tensor in a particular partitioned and
// reordered form in logs and listings.
func (c Cursor) TensorName() string {
	return c.root + "_" + strings.Join(c.ranks, "")
}

// String describes the cursor for error messages: the tensor name in its
// current form, marked when the tensor was re-entered from a fiber.
func (c Cursor) String() string {
	if c.fromFiber {
		return c.TensorName() + " (from fiber)"
	}
	return c.TensorName()
}

// withPending replaces the pending part of the rank list.
func (c Cursor) withPending(pending []string) Cursor {
	ranks := make([]string, 0, c.pos+len(pending))
	ranks = append(ranks, c.ranks[:c.pos]...)
	ranks = append(ranks, pending...)
	c.ranks = ranks
	return c
}

// FiberName returns the fiber name of tensor root positioned at rank.
func FiberName(root, rank string) string {
	return strings.ToLower(root) + "_" + strings.ToLower(rank)
}
