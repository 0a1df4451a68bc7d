package flow_test

import (
	"fmt"

	"github.com/matzehuels/fiberflow/pkg/flow"
	"github.com/matzehuels/fiberflow/pkg/program"
)

func ExampleCompile() {
	// Z[i, j] = A[i, j] + B[i, j]
	prog, err := program.New([]program.Tensor{
		program.NewTensor("A", "I", "J"),
		program.NewTensor("B", "I", "J"),
		program.NewTensor("Z", "I", "J"),
	}, "Z", []string{"I", "J"}, nil)
	if err != nil {
		panic(err)
	}

	plan, err := flow.Compile(prog)
	if err != nil {
		panic(err)
	}
	for _, n := range plan.Order {
		fmt.Println(n)
	}
	// Output:
	// OtherNode(Output)
	// OtherNode(Graphics)
	// SRNode(A, [I, J])
	// SRNode(B, [I, J])
	// SRNode(Z, [I, J])
	// LoopNode(I)
	// LoopNode(J)
	// OtherNode(Body)
	// OtherNode(Footer)
}

func ExampleBuild() {
	part := program.NewPartitioning()
	_ = part.Add("K", program.Step{Kind: program.UniformShape, Size: 4})
	prog, _ := program.New([]program.Tensor{
		program.NewTensor("A", "K"),
	}, "A", []string{"K1", "K0"}, part)

	g, _ := flow.Build(prog)
	removed := flow.Prune(g)
	order, _ := flow.Schedule(g)

	fmt.Println("removed:", removed)
	for _, n := range order {
		fmt.Println(n)
	}
	// Output:
	// removed: 8
	// OtherNode(Output)
	// PartNode(A, (K,))
	// OtherNode(Graphics)
	// SRNode(A, [K1, K0])
	// LoopNode(K1)
	// LoopNode(K0)
	// OtherNode(Body)
	// OtherNode(Footer)
}
