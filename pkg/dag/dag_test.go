package dag

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddEdge_CreatesEndpoints(t *testing.T) {
	g := New[string]()
	if !g.AddEdge("a", "b") {
		t.Fatal("AddEdge() = false for a new edge")
	}
	if !g.HasNode("a") || !g.HasNode("b") {
		t.Error("AddEdge() should create both endpoints")
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("got %d nodes / %d edges, want 2 / 1", g.NodeCount(), g.EdgeCount())
	}
}

func TestAddEdge_Idempotent(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	before := g.Edges()

	if g.AddEdge("a", "b") {
		t.Error("AddEdge() = true for an existing edge")
	}

	if diff := cmp.Diff(before, g.Edges()); diff != "" {
		t.Errorf("edge set changed after re-adding (-before +after):\n%s", diff)
	}
	if got := g.Children("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Children(a) = %v, want [b]", got)
	}
	if got := g.Parents("b"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Parents(b) = %v, want [a]", got)
	}
}

func TestAddNode(t *testing.T) {
	g := New[int]()
	if !g.AddNode(1) {
		t.Error("AddNode(1) = false, want true")
	}
	if g.AddNode(1) {
		t.Error("second AddNode(1) = true, want false")
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}

func TestNodes_InsertionOrder(t *testing.T) {
	g := New[string]()
	g.AddEdge("z", "y")
	g.AddNode("a")
	g.AddEdge("y", "a")
	g.AddEdge("m", "z")

	want := []string{"z", "y", "a", "m"}
	if got := g.Nodes(); !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
}

func TestRemoveNode(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("a", "c")
	g.AddEdge("c", "d")

	if !g.RemoveNode("c") {
		t.Fatal("RemoveNode(c) = false")
	}
	if g.RemoveNode("c") {
		t.Error("second RemoveNode(c) = true")
	}

	if g.HasNode("c") {
		t.Error("c still present")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if !g.HasEdge("a", "b") {
		t.Error("unrelated edge a→b removed")
	}
	if got := g.Children("b"); len(got) != 0 {
		t.Errorf("Children(b) = %v, want none", got)
	}
	if got := g.Parents("d"); len(got) != 0 {
		t.Errorf("Parents(d) = %v, want none", got)
	}
	if got := g.Nodes(); !slices.Equal(got, []string{"a", "b", "d"}) {
		t.Errorf("Nodes() = %v, want [a b d]", got)
	}
}

func TestRemoveNode_SelfLoop(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "a")
	g.AddEdge("a", "b")
	g.RemoveNode("a")
	if g.EdgeCount() != 0 || g.NodeCount() != 1 {
		t.Errorf("got %d nodes / %d edges, want 1 / 0", g.NodeCount(), g.EdgeCount())
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	if !g.RemoveEdge("a", "b") {
		t.Error("RemoveEdge(a, b) = false")
	}
	if g.RemoveEdge("a", "b") {
		t.Error("RemoveEdge of a missing edge = true")
	}
	if g.NodeCount() != 2 {
		t.Error("RemoveEdge should keep endpoints")
	}
}

func TestDescendants(t *testing.T) {
	//   a
	//  / \
	// b   c
	//  \ /
	//   d    e
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "d")
	g.AddEdge("c", "d")
	g.AddNode("e")

	if got := g.Descendants("a"); !slices.Equal(got, []string{"b", "c", "d"}) {
		t.Errorf("Descendants(a) = %v, want [b c d]", got)
	}
	if got := g.Descendants("d"); len(got) != 0 {
		t.Errorf("Descendants(d) = %v, want none", got)
	}
	if got := g.Descendants("missing"); len(got) != 0 {
		t.Errorf("Descendants(missing) = %v, want none", got)
	}
	if _, ok := g.DescendantSet("a")["e"]; ok {
		t.Error("unrelated node e reported as descendant")
	}
}

func TestReaches(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddNode("d")

	tests := []struct {
		from, to string
		want     bool
	}{
		{"a", "c", true},
		{"a", "b", true},
		{"c", "a", false},
		{"a", "a", false},
		{"a", "d", false},
	}
	for _, tt := range tests {
		if got := g.Reaches(tt.from, tt.to); got != tt.want {
			t.Errorf("Reaches(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() on DAG = %v", err)
	}

	g.AddEdge("c", "a")
	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}

	self := New[string]()
	self.AddEdge("x", "x")
	if err := self.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() with self loop = %v, want ErrGraphHasCycle", err)
	}
}

func TestClone_Independent(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	c := g.Clone()
	c.AddEdge("b", "c")
	c.RemoveNode("a")

	if g.NodeCount() != 2 || !g.HasEdge("a", "b") {
		t.Error("mutating the clone changed the original")
	}
	if diff := cmp.Diff([]string{"b", "c"}, c.Nodes()); diff != "" {
		t.Errorf("clone nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalSort_Stable(t *testing.T) {
	g := New[string]()
	g.AddNode("x")
	g.AddEdge("b", "a")
	g.AddNode("c")

	got, err := g.TopologicalSort()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"x", "b", "a", "c"}; !slices.Equal(got, want) {
		t.Errorf("TopologicalSort() = %v, want %v", got, want)
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	if _, err := g.TopologicalSort(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("TopologicalSort() error = %v, want ErrGraphHasCycle", err)
	}
}

func TestTopologicalSorts_Count(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *Graph[int])
		want  int
	}{
		{"empty", func(*Graph[int]) {}, 1},
		{"single", func(g *Graph[int]) { g.AddNode(0) }, 1},
		{"three independent", func(g *Graph[int]) { g.AddNode(0); g.AddNode(1); g.AddNode(2) }, 6},
		{"chain", func(g *Graph[int]) { g.AddEdge(0, 1); g.AddEdge(1, 2) }, 1},
		{"diamond", func(g *Graph[int]) {
			g.AddEdge(0, 1)
			g.AddEdge(0, 2)
			g.AddEdge(1, 3)
			g.AddEdge(2, 3)
		}, 2},
		{"cycle", func(g *Graph[int]) { g.AddEdge(0, 1); g.AddEdge(1, 0) }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New[int]()
			tt.build(g)
			count := 0
			for order := range g.TopologicalSorts() {
				if !g.IsTopologicalOrder(order) {
					t.Errorf("yielded invalid order %v", order)
				}
				count++
			}
			if count != tt.want {
				t.Errorf("got %d orders, want %d", count, tt.want)
			}
		})
	}
}

func TestTopologicalSorts_StopsEarly(t *testing.T) {
	g := New[int]()
	for i := range 12 {
		g.AddNode(i) // 12! orders; must not be materialized
	}
	n := 0
	for range g.TopologicalSorts() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterated %d orders, want 3", n)
	}
}

func TestTopologicalSorts_FirstMatchesKahn(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := range 50 {
		g := randomDAG(r, 7, 0.3)
		kahn, err := g.TopologicalSort()
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		for first := range g.TopologicalSorts() {
			if !slices.Equal(first, kahn) {
				t.Errorf("trial %d: first enumerated order %v != Kahn order %v", trial, first, kahn)
			}
			break
		}
	}
}

func TestIsTopologicalOrder(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddNode("c")

	tests := []struct {
		order []string
		want  bool
	}{
		{[]string{"a", "b", "c"}, true},
		{[]string{"c", "a", "b"}, true},
		{[]string{"b", "a", "c"}, false},
		{[]string{"a", "b"}, false},
		{[]string{"a", "a", "b"}, false},
		{[]string{"a", "b", "x"}, false},
	}
	for _, tt := range tests {
		if got := g.IsTopologicalOrder(tt.order); got != tt.want {
			t.Errorf("IsTopologicalOrder(%v) = %v, want %v", tt.order, got, tt.want)
		}
	}
}

func TestInduced(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("a", "c")

	sub := g.Induced(func(n string) bool { return n != "b" })
	if got := sub.Nodes(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Nodes() = %v, want [a c]", got)
	}
	if sub.EdgeCount() != 1 || !sub.HasEdge("a", "c") {
		t.Errorf("Induced edges = %v, want [a→c]", sub.Edges())
	}
}

func TestPosMap(t *testing.T) {
	m := PosMap([]string{"x", "y"})
	if m["x"] != 0 || m["y"] != 1 || len(m) != 2 {
		t.Errorf("PosMap() = %v", m)
	}
}

// randomDAG builds a DAG over 0..n-1 where each forward pair i<j gets an
// edge with probability p. Insertion order is shuffled so that it differs
// from the numeric order.
func randomDAG(r *rand.Rand, n int, p float64) *Graph[int] {
	g := New[int]()
	for _, i := range r.Perm(n) {
		g.AddNode(i)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			if r.Float64() < p {
				g.AddEdge(i, j)
			}
		}
	}
	return g
}
