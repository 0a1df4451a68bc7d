package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fiberflow/pkg/program"
)

// validateOpts holds the command-line flags for the validate command.
type validateOpts struct {
	print string // re-encode the program in this format ("" to skip)
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var opts validateOpts

	cmd := &cobra.Command{
		Use:   "validate [program]",
		Short: "Check a program description",
		Long: `Load a program description, check it and summarize its tensors, loop
order and partitions. With --print the normalized description is written in
the requested format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch program.Format(opts.print) {
			case "", program.FormatTOML, program.FormatYAML, program.FormatJSON:
			default:
				return errInvalidFlag("print", opts.print, "toml", "yaml", "json")
			}
			return runValidate(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.print, "print", "", "print the normalized program: toml, yaml, json")

	return cmd
}

func runValidate(ctx context.Context, w io.Writer, path string, opts validateOpts) error {
	p, err := newRunner(ctx).Load(ctx, path)
	if err != nil {
		printError(w, "%s", path)
		return err
	}

	if opts.print != "" {
		return program.ConfigOf(p).Encode(w, program.Format(opts.print))
	}

	printSuccess(w, "%s is valid", path)
	writeSummary(w, p)
	return nil
}

// writeSummary prints the tensors, loop order and partitions of p.
func writeSummary(w io.Writer, p *program.Program) {
	out := p.Output()
	printKeyValue(w, "output", out.String())
	printKeyValue(w, "loop order", strings.Join(p.LoopOrder().Ranks(), ", "))

	for _, t := range p.Tensors() {
		if t.Root() == out.Root() {
			continue
		}
		printKeyValue(w, "input", t.String())
	}

	part := p.Partitioning()
	for _, rank := range part.Ranks() {
		kind := "static"
		if part.IsDynamic(rank) {
			kind = "dynamic"
		}
		final, _ := part.PartitionNames(rank, true)
		printKeyValue(w, "partition", fmt.Sprintf("%s (%s) %s %s", rank, kind, iconArrow, strings.Join(final, ", ")))
		for _, s := range part.Steps(rank) {
			printDetail(w, "%s", s)
		}
	}
}
