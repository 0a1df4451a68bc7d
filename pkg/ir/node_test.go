package ir

import (
	"encoding/json"
	"testing"
)

func allVariants() []Node {
	return []Node{
		TensorNode("A"),
		RankNode("A", "K"),
		FiberNode("a_k"),
		LoopNode("K"),
		PartNode("A", "K"),
		FromFiberNode("A", "K"),
		SRNode("A", "K", "M"),
		OtherNode(AnchorBody),
	}
}

func TestNodeEqualityStructural(t *testing.T) {
	pairs := []struct {
		name string
		a, b Node
	}{
		{"tensor", TensorNode("A"), TensorNode("A")},
		{"rank", RankNode("A", "K"), RankNode("A", "K")},
		{"fiber", FiberNode("a_k"), FiberNode("a_k")},
		{"loop", LoopNode("K"), LoopNode("K")},
		{"part", PartNode("A", "K"), PartNode("A", "K")},
		{"from fiber", FromFiberNode("A", "K"), FromFiberNode("A", "K")},
		{"sr", SRNode("A", "K", "M"), SRNode("A", "K", "M")},
		{"other", OtherNode(AnchorGraphics), OtherNode(AnchorGraphics)},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a != tt.b || tt.b != tt.a {
				t.Errorf("%v != %v", tt.a, tt.b)
			}
			m := map[Node]int{tt.a: 1}
			if m[tt.b] != 1 {
				t.Errorf("map lookup of %v failed", tt.b)
			}
		})
	}
}

func TestNodeInequality(t *testing.T) {
	differ := []struct {
		name string
		a, b Node
	}{
		{"tensor root", TensorNode("A"), TensorNode("B")},
		{"rank id", RankNode("A", "K"), RankNode("A", "M")},
		{"rank root", RankNode("A", "K"), RankNode("B", "K")},
		{"loop rank", LoopNode("K"), LoopNode("K0")},
		{"part tuple", PartNode("A", "K"), PartNode("A", "K", "M")},
		{"sr order", SRNode("A", "K", "M"), SRNode("A", "M", "K")},
		{"sr empty vs one", SRNode("A"), SRNode("A", "K")},
		{"anchor", OtherNode(AnchorBody), OtherNode(AnchorFooter)},
		{"variant rank vs from fiber", RankNode("A", "K"), FromFiberNode("A", "K")},
		{"variant part vs sr", PartNode("A", "K"), SRNode("A", "K")},
		{"variant tensor vs fiber", TensorNode("a"), FiberNode("a")},
	}

	for _, tt := range differ {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("%v == %v, want distinct", tt.a, tt.b)
			}
		})
	}

	seen := make(map[Node]bool)
	for _, n := range allVariants() {
		if seen[n] {
			t.Errorf("duplicate variant %v", n)
		}
		seen[n] = true
	}
}

func TestNodeRanksIsACopy(t *testing.T) {
	n := SRNode("A", "K", "M")
	r := n.Ranks()
	r[0] = "X"
	if got := n.Ranks()[0]; got != "K" {
		t.Errorf("Ranks()[0] = %q after caller mutation, want K", got)
	}
	if LoopNode("K").Ranks() != nil {
		t.Error("Ranks() of a loop node should be nil")
	}
	if got := SRNode("A").Ranks(); got == nil || len(got) != 0 {
		t.Errorf("SRNode without ranks: Ranks() = %#v, want empty slice", got)
	}
}

func TestNodeString(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{TensorNode("A"), "TensorNode(A)"},
		{RankNode("A", "K"), "RankNode(A, K)"},
		{FiberNode("a_k"), "FiberNode(a_k)"},
		{LoopNode("K"), "LoopNode(K)"},
		{PartNode("A", "K"), "PartNode(A, (K,))"},
		{PartNode("A", "K", "M"), "PartNode(A, (K, M))"},
		{FromFiberNode("A", "K"), "FromFiberNode(A, K)"},
		{SRNode("B", "K1", "K0", "N"), "SRNode(B, [K1, K0, N])"},
		{OtherNode(AnchorStartLoop), "OtherNode(StartLoop)"},
		{Node{}, "InvalidNode"},
	}

	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNodeBookkeeping(t *testing.T) {
	tests := []struct {
		node Node
		want bool
	}{
		{TensorNode("A"), true},
		{RankNode("A", "K"), true},
		{FiberNode("a_k"), true},
		{OtherNode(AnchorStartLoop), true},
		{LoopNode("K"), false},
		{PartNode("A", "K"), false},
		{FromFiberNode("A", "K"), false},
		{SRNode("A", "K"), false},
		{OtherNode(AnchorGraphics), false},
		{OtherNode(AnchorOutput), false},
		{OtherNode(AnchorBody), false},
		{OtherNode(AnchorFooter), false},
	}

	for _, tt := range tests {
		if got := tt.node.Bookkeeping(); got != tt.want {
			t.Errorf("%v.Bookkeeping() = %v, want %v", tt.node, got, tt.want)
		}
	}
}

func TestNodeJSON(t *testing.T) {
	for _, n := range allVariants() {
		data, err := json.Marshal(n)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", n, err)
		}
		var got Node
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if got != n {
			t.Errorf("decoded %v from %s, want %v", got, data, n)
		}
	}

	data, _ := json.Marshal(PartNode("A", "K"))
	if want := `{"kind":"part","tensor":"A","ranks":["K"]}`; string(data) != want {
		t.Errorf("Marshal(PartNode) = %s, want %s", data, want)
	}

	if _, err := json.Marshal(Node{}); err == nil {
		t.Error("marshaling the zero node should fail")
	}

	var n Node
	if err := json.Unmarshal([]byte(`{"kind":"other","anchor":"Nowhere"}`), &n); err == nil {
		t.Error("unknown anchor should fail to decode")
	}
	if err := json.Unmarshal([]byte(`{"kind":"bogus"}`), &n); err == nil {
		t.Error("unknown kind should fail to decode")
	}
}
