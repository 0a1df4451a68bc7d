package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fiberflow/pkg/ir"
	"github.com/matzehuels/fiberflow/pkg/pipeline"
)

// scheduleOpts holds the command-line flags for the schedule command.
type scheduleOpts struct {
	output      string // output file; stdout when empty
	format      string // "text" or "json"
	verify      bool   // cross-check against the exhaustive scheduler
	verifyLimit int    // largest pruned graph checked exhaustively
}

// scheduleCommand creates the schedule command.
func (c *CLI) scheduleCommand() *cobra.Command {
	opts := scheduleOpts{
		format:      formatText,
		verifyLimit: pipeline.DefaultVerifyLimit,
	}

	cmd := &cobra.Command{
		Use:   "schedule [program]",
		Short: "Compile a program and print its operation order",
		Long: `Compile a program description (TOML, YAML or JSON) and print the order in
which its operations are emitted. Every loop appears at the position its
loop nest requires.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return runSchedule(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "cross-check the schedule against exhaustive search")
	cmd.Flags().IntVar(&opts.verifyLimit, "verify-limit", opts.verifyLimit, "largest graph (nodes) searched exhaustively")

	return cmd
}

// scheduleJSON is the JSON form of a schedule.
type scheduleJSON struct {
	Run     string    `json:"run"`
	Program string    `json:"program"`
	Removed int       `json:"removed"`
	Order   []ir.Node `json:"order"`
}

func runSchedule(ctx context.Context, w io.Writer, path string, opts scheduleOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	runner := newRunner(ctx)

	p, err := runner.Load(ctx, path)
	if err != nil {
		return err
	}
	res, err := runner.Compile(ctx, p, pipeline.Options{
		Verify:      opts.verify,
		VerifyLimit: opts.verifyLimit,
	})
	if err != nil {
		return err
	}

	wrote, err := emit(w, opts.output, func(w io.Writer, styled bool) error {
		if opts.format == formatJSON {
			return writeJSON(w, scheduleJSON{
				Run:     res.ID.String(),
				Program: path,
				Removed: res.Stats.Removed,
				Order:   res.Order,
			})
		}
		writeSchedule(w, res.Order, styled)
		return nil
	})
	if err != nil {
		return err
	}

	if wrote {
		printSuccess(w, "Scheduled %d operations", len(res.Order))
		printFile(w, opts.output)
	}
	if opts.verify && res.Stats.Verified {
		logger.Info("schedule matches exhaustive search")
	}
	prog.done(fmt.Sprintf("Scheduled %d operations", len(res.Order)))
	return nil
}

// writeSchedule prints one numbered node per line.
func writeSchedule(w io.Writer, order []ir.Node, styled bool) {
	for i, n := range order {
		if styled {
			fmt.Fprintf(w, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%3d", i)), renderNode(n))
			continue
		}
		fmt.Fprintf(w, "%3d  %s\n", i, n)
	}
}
