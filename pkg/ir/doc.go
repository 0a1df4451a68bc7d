// Package ir defines the vertex type of the fiberflow dependency graph.
//
// # Overview
//
// The compiler lowers an einsum, a loop order and a set of rank partitioning
// rules into a sequence of abstract operations over per-rank fibers. Every
// operation, and every piece of dataflow bookkeeping used to order them, is
// a [Node]:
//
//   - [TensorNode]: the tensor object must exist
//   - [RankNode]: a rank of a tensor is available
//   - [FiberNode]: a named fiber produced by generated code
//   - [LoopNode]: the loop over a rank, shared by every tensor with that rank
//   - [PartNode]: one partitioning application
//   - [FromFiberNode]: rebuilding a tensor from a fiber mid loop nest
//   - [SRNode]: swizzle ranks, then take the root fiber
//   - [OtherNode]: a fixed skeleton anchor ([AnchorOutput], [AnchorGraphics],
//     [AnchorStartLoop], [AnchorBody], [AnchorFooter])
//
// # Identity
//
// Node is a comparable struct. Equality is structural: same [Kind] and same
// payload. Rank tuples are stored in a joined form so that PartNode and
// SRNode stay comparable. Use nodes directly as map keys:
//
//	seen := map[ir.Node]bool{}
//	seen[ir.LoopNode("K")] = true
//	seen[ir.LoopNode("K")] // true
//
// # Emission
//
// After pruning, only loop, part, from-fiber, SR and non-StartLoop anchor
// nodes remain; [Node.Bookkeeping] reports the kinds that are removed.
// [Node.MarshalJSON] is the form handed to the code emitter.
package ir
