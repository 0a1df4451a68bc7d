package ir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies which variant a [Node] holds.
type Kind uint8

const (
	// KindInvalid is the zero Kind. The zero Node has this kind and is never
	// produced by the constructors.
	KindInvalid Kind = iota
	// KindTensor: the tensor object must exist.
	KindTensor
	// KindRank: a rank's fiber/position is available for a tensor.
	KindRank
	// KindFiber: a named fiber value produced by generated code.
	KindFiber
	// KindLoop: the loop iterating over a (possibly shared) rank.
	KindLoop
	// KindPart: one partitioning application.
	KindPart
	// KindFromFiber: re-entering tensor construction from an existing fiber.
	KindFromFiber
	// KindSR: reorder ranks, then obtain the root fiber.
	KindSR
	// KindOther: a fixed anchor in the program skeleton.
	KindOther
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindTensor:    "tensor",
	KindRank:      "rank",
	KindFiber:     "fiber",
	KindLoop:      "loop",
	KindPart:      "part",
	KindFromFiber: "from_fiber",
	KindSR:        "sr",
	KindOther:     "other",
}

// String returns the lower-case kind name used in JSON output.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Anchor names one of the fixed skeleton points carried by an OtherNode.
type Anchor string

const (
	AnchorStartLoop Anchor = "StartLoop"
	AnchorGraphics  Anchor = "Graphics"
	AnchorOutput    Anchor = "Output"
	AnchorBody      Anchor = "Body"
	AnchorFooter    Anchor = "Footer"
)

// Valid reports whether a is one of the five skeleton anchors.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorStartLoop, AnchorGraphics, AnchorOutput, AnchorBody, AnchorFooter:
		return true
	}
	return false
}

// rankSep joins rank tuples into a comparable payload. Rank ids are
// identifiers, so the unit separator never appears inside one.
const rankSep = "\x1f"

// Node is a vertex of the dependency graph: an immutable value holding
// exactly one of the eight variants.
//
// Nodes are plain comparable values. Two nodes are equal (==) iff they have
// the same Kind and the same payload, so a Node can be used directly as a
// map key or set member. There is no way to mutate a Node after
// construction; a different state is always a different Node.
type Node struct {
	kind   Kind
	tensor string // root name (Tensor, Rank, Part, FromFiber, SR)
	rank   string // rank id (Rank, Loop, FromFiber)
	ranks  string // rankSep-joined tuple (Part, SR)
	fiber  string // fiber handle (Fiber)
	anchor Anchor // skeleton anchor (Other)
}

// TensorNode returns the node for "tensor root must exist".
func TensorNode(root string) Node {
	return Node{kind: KindTensor, tensor: root}
}

// RankNode returns the node for "rank of root is available".
func RankNode(root, rank string) Node {
	return Node{kind: KindRank, tensor: root, rank: rank}
}

// FiberNode returns the node for the generated fiber handle name.
func FiberNode(name string) Node {
	return Node{kind: KindFiber, fiber: name}
}

// LoopNode returns the loop over rank. Tensors sharing a rank share the loop.
func LoopNode(rank string) Node {
	return Node{kind: KindLoop, rank: rank}
}

// PartNode returns the partitioning application of ranks on root.
func PartNode(root string, ranks ...string) Node {
	return Node{kind: KindPart, tensor: root, ranks: strings.Join(ranks, rankSep)}
}

// FromFiberNode returns the node for rebuilding root from an existing fiber
// at rank.
func FromFiberNode(root, rank string) Node {
	return Node{kind: KindFromFiber, tensor: root, rank: rank}
}

// SRNode returns the combined swizzle-and-get-root step of root over ranks.
func SRNode(root string, ranks ...string) Node {
	return Node{kind: KindSR, tensor: root, ranks: strings.Join(ranks, rankSep)}
}

// OtherNode returns the skeleton anchor node.
func OtherNode(a Anchor) Node {
	return Node{kind: KindOther, anchor: a}
}

// Kind returns the variant tag.
func (n Node) Kind() Kind { return n.kind }

// Tensor returns the tensor root name, or "" for variants without one.
func (n Node) Tensor() string { return n.tensor }

// Rank returns the single rank id of Rank, Loop and FromFiber nodes.
func (n Node) Rank() string { return n.rank }

// Ranks returns a copy of the rank tuple of Part and SR nodes.
func (n Node) Ranks() []string {
	if n.kind != KindPart && n.kind != KindSR {
		return nil
	}
	if n.ranks == "" {
		return []string{}
	}
	return strings.Split(n.ranks, rankSep)
}

// Fiber returns the fiber handle name of a Fiber node.
func (n Node) Fiber() string { return n.fiber }

// Anchor returns the skeleton anchor of an Other node.
func (n Node) Anchor() Anchor { return n.anchor }

// IsZero reports whether n is the zero Node.
func (n Node) IsZero() bool { return n == Node{} }

// Is reports whether n is an OtherNode carrying anchor a.
func (n Node) Is(a Anchor) bool { return n.kind == KindOther && n.anchor == a }

// Bookkeeping reports whether n only carries dataflow information and is
// never emitted as a statement: tensor, rank and fiber nodes and the
// StartLoop anchor.
func (n Node) Bookkeeping() bool {
	switch n.kind {
	case KindTensor, KindRank, KindFiber:
		return true
	case KindOther:
		return n.anchor == AnchorStartLoop
	}
	return false
}

// String renders the node for logs and CLI listings, e.g.
// "PartNode(A, (K,))" or "SRNode(B, [K1, K0, N])".
func (n Node) String() string {
	switch n.kind {
	case KindTensor:
		return fmt.Sprintf("TensorNode(%s)", n.tensor)
	case KindRank:
		return fmt.Sprintf("RankNode(%s, %s)", n.tensor, n.rank)
	case KindFiber:
		return fmt.Sprintf("FiberNode(%s)", n.fiber)
	case KindLoop:
		return fmt.Sprintf("LoopNode(%s)", n.rank)
	case KindPart:
		return fmt.Sprintf("PartNode(%s, %s)", n.tensor, tuple(n.Ranks()))
	case KindFromFiber:
		return fmt.Sprintf("FromFiberNode(%s, %s)", n.tensor, n.rank)
	case KindSR:
		return fmt.Sprintf("SRNode(%s, [%s])", n.tensor, strings.Join(n.Ranks(), ", "))
	case KindOther:
		return fmt.Sprintf("OtherNode(%s)", n.anchor)
	}
	return "InvalidNode"
}

func tuple(ranks []string) string {
	if len(ranks) == 1 {
		return "(" + ranks[0] + ",)"
	}
	return "(" + strings.Join(ranks, ", ") + ")"
}

// jsonNode is the wire form handed to the emission layer.
type jsonNode struct {
	Kind   string   `json:"kind"`
	Tensor string   `json:"tensor,omitempty"`
	Rank   string   `json:"rank,omitempty"`
	Ranks  []string `json:"ranks,omitempty"`
	Fiber  string   `json:"fiber,omitempty"`
	Anchor Anchor   `json:"anchor,omitempty"`
}

// MarshalJSON encodes the node as {"kind": ..., <payload fields>}.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.kind == KindInvalid {
		return nil, fmt.Errorf("ir: cannot marshal zero node")
	}
	return json.Marshal(jsonNode{
		Kind:   n.kind.String(),
		Tensor: n.tensor,
		Rank:   n.rank,
		Ranks:  n.Ranks(),
		Fiber:  n.fiber,
		Anchor: n.anchor,
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var j jsonNode
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	switch j.Kind {
	case "tensor":
		*n = TensorNode(j.Tensor)
	case "rank":
		*n = RankNode(j.Tensor, j.Rank)
	case "fiber":
		*n = FiberNode(j.Fiber)
	case "loop":
		*n = LoopNode(j.Rank)
	case "part":
		*n = PartNode(j.Tensor, j.Ranks...)
	case "from_fiber":
		*n = FromFiberNode(j.Tensor, j.Rank)
	case "sr":
		*n = SRNode(j.Tensor, j.Ranks...)
	case "other":
		if !j.Anchor.Valid() {
			return fmt.Errorf("ir: unknown anchor %q", j.Anchor)
		}
		*n = OtherNode(j.Anchor)
	default:
		return fmt.Errorf("ir: unknown node kind %q", j.Kind)
	}
	return nil
}
