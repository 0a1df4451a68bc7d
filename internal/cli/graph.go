package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fiberflow/pkg/dag"
	"github.com/matzehuels/fiberflow/pkg/dag/transform"
	"github.com/matzehuels/fiberflow/pkg/ir"
	"github.com/matzehuels/fiberflow/pkg/pipeline"
)

const (
	stageRaw    = "raw"    // graph as built, bookkeeping nodes included
	stagePruned = "pruned" // graph after contracting bookkeeping nodes
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output string
	format string
	stage  string
	reduce bool // drop edges implied by longer paths
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{
		format: formatText,
		stage:  stagePruned,
	}

	cmd := &cobra.Command{
		Use:   "graph [program]",
		Short: "Print a program's dependency graph",
		Long: `Print the nodes and edges of a program's dependency graph, either as built
(--stage raw) or after bookkeeping nodes are contracted (--stage pruned).
The text listing groups nodes by their longest-path depth.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if opts.stage != stageRaw && opts.stage != stagePruned {
				return errInvalidFlag("stage", opts.stage, stageRaw, stagePruned)
			}
			return runGraph(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json")
	cmd.Flags().StringVar(&opts.stage, "stage", opts.stage, "graph stage: raw, pruned")
	cmd.Flags().BoolVar(&opts.reduce, "reduce", false, "remove transitively implied edges")

	return cmd
}

type graphJSON struct {
	Stage   string     `json:"stage"`
	Nodes   []nodeJSON `json:"nodes"`
	Edges   []edgeJSON `json:"edges"`
	Sources []ir.Node  `json:"sources"`
	Sinks   []ir.Node  `json:"sinks"`
}

type nodeJSON struct {
	Node  ir.Node `json:"node"`
	Layer int     `json:"layer"`
}

type edgeJSON struct {
	From ir.Node `json:"from"`
	To   ir.Node `json:"to"`
}

func runGraph(ctx context.Context, w io.Writer, path string, opts graphOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	runner := newRunner(ctx)

	p, err := runner.Load(ctx, path)
	if err != nil {
		return err
	}
	res, err := runner.Compile(ctx, p, pipeline.Options{KeepRaw: opts.stage == stageRaw})
	if err != nil {
		return err
	}

	g := res.Graph
	if opts.stage == stageRaw {
		g = res.Raw
	}
	if opts.reduce {
		g = g.Clone()
		removed := transform.TransitiveReduction(g)
		logger.Debug("reduced graph", "removed_edges", removed, "edges", g.EdgeCount())
	}
	layers := transform.AssignLayers(g)

	wrote, err := emit(w, opts.output, func(w io.Writer, styled bool) error {
		if opts.format == formatJSON {
			return writeJSON(w, graphToJSON(g, layers, opts.stage))
		}
		writeGraph(w, g, layers, styled)
		return nil
	})
	if err != nil {
		return err
	}

	if wrote {
		printSuccess(w, "Wrote %s graph", opts.stage)
		printFile(w, opts.output)
	}
	prog.done(fmt.Sprintf("Listed %d nodes, %d edges", g.NodeCount(), g.EdgeCount()))
	return nil
}

func graphToJSON(g *dag.Graph[ir.Node], layers map[ir.Node]int, stage string) graphJSON {
	out := graphJSON{Stage: stage, Sources: g.Sources(), Sinks: g.Sinks()}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, nodeJSON{Node: n, Layer: layers[n]})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edgeJSON{From: e.From, To: e.To})
	}
	return out
}

// writeGraph lists nodes layer by layer, each followed by its children.
func writeGraph(w io.Writer, g *dag.Graph[ir.Node], layers map[ir.Node]int, styled bool) {
	depth := 0
	for _, l := range layers {
		depth = max(depth, l+1)
	}
	byLayer := make([][]ir.Node, depth)
	for _, n := range g.Nodes() {
		byLayer[layers[n]] = append(byLayer[layers[n]], n)
	}

	render := func(n ir.Node) string { return n.String() }
	if styled {
		render = renderNode
	}

	for l, nodes := range byLayer {
		header := fmt.Sprintf("layer %d", l)
		if styled {
			header = StyleTitle.Render(header)
		}
		fmt.Fprintln(w, header)
		for _, n := range nodes {
			if g.OutDegree(n) == 0 {
				fmt.Fprintf(w, "  %s\n", render(n))
				continue
			}
			children := g.Children(n)
			names := make([]string, len(children))
			for i, ch := range children {
				names[i] = ch.String()
			}
			fmt.Fprintf(w, "  %s %s %s\n", render(n), iconArrow, strings.Join(names, ", "))
		}
	}
	if styled {
		printStats(w,
			fmt.Sprintf("%d nodes", g.NodeCount()),
			fmt.Sprintf("%d edges", g.EdgeCount()),
			fmt.Sprintf("%d sources", len(g.Sources())),
			fmt.Sprintf("%d sinks", len(g.Sinks())))
	}
}
