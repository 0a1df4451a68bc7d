// Package program models the tensor-algebra programs fiberflow lowers.
//
// # Overview
//
// A [Program] declares tensors with named ranks, picks one of them as the
// output, fixes a global loop order and optionally partitions ranks into
// tiles. The dependency graph builder in package flow reads a program
// through a small set of operations: the loop order, the partitioning rules
// and per-tensor rank cursors.
//
// # Cursors
//
// A [Cursor] tracks one tensor's ranks while the loop nest is being
// lowered. Cursors are values: [Cursor.Pop], [Program.ApplyPartitioning],
// [LoopOrder.Apply] and [Cursor.Reset] all return a new cursor, which makes
// every state transition visible at the call site:
//
//	c := prog.Cursor(t)
//	c, err = prog.LoopOrder().Apply(c)
//	c, rank, ok := c.Pop()
//
// [Cursor.FiberName] names the fiber the generated code holds for the
// tensor in the cursor's state.
//
// # Partitioning
//
// Static steps ([UniformShape], [NWayShape]) are resolved before the loop
// nest starts. Dynamic steps ([UniformOccupancy]) are resolved when the loop
// nest reaches the rank, using the fiber of a leader tensor; other tensors
// sharing the rank follow the leader's split points. See [Partitioning] for
// the naming of derived ranks.
//
// # Loading
//
// Programs are described in TOML, YAML or JSON and loaded with [Load] or
// [LoadProgram]. The format is chosen by file extension.
package program
