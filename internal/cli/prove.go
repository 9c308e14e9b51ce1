package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/porism/porism/internal/engine"
	"github.com/porism/porism/internal/geom"
)

// ProveOptions holds flags for the prove command.
type ProveOptions struct {
	*RootOptions
	At []string // given point overrides, "pID=x,y"
}

// ProveResult holds the outcome of one replayed proof.
type ProveResult struct {
	Prop           string `json:"prop"`
	Title          string `json:"title"`
	StepsCompleted int    `json:"steps_completed"`
	TotalSteps     int    `json:"total_steps"`
	Complete       bool   `json:"complete"`
	Conclusion     string `json:"conclusion,omitempty"`
}

// NewProveCommand creates the prove command.
func NewProveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prove <prop-id>",
		Short: "Replay a proposition's guided proof",
		Long: `Replay a proposition's authored step sequence and report the outcome.

Given points may be dragged to new positions with --at; the proof is
then replayed against the moved configuration. A step whose geometry
no longer exists is skipped, and the proof reports as broken.

Exit codes:
  0 - Proof complete
  1 - Proof broken under the given positions
  2 - Command error (unknown proposition, bad flag syntax, etc.)

Examples:
  porism prove I.1
  porism prove I.2 --at p3=2.5,0.4
  porism prove I.1 --packs ./packs --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.At, "at", nil, "override a given point position, e.g. p2=1.5,0.3 (repeatable)")

	return cmd
}

func runProve(opts *ProveOptions, propID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := buildRegistry(opts.RootOptions)
	if err != nil {
		return err
	}
	def, ok := reg.Lookup(propID)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown proposition: %s", propID))
	}

	positions, err := parsePositions(opts.At)
	if err != nil {
		return WrapExitError(ExitCommandError, "parsing --at", err)
	}

	res := engine.Replay(reg, def, positions, nil)
	result := ProveResult{
		Prop:           def.ID,
		Title:          def.Title,
		StepsCompleted: res.StepsCompleted,
		TotalSteps:     res.TotalSteps,
		Complete:       res.Complete,
		Conclusion:     res.Conclusion,
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputProveText(formatter, def.Title, result)
	}

	if !result.Complete {
		return NewExitError(ExitFailure, fmt.Sprintf("proof broken: %d/%d steps", result.StepsCompleted, result.TotalSteps))
	}
	return nil
}

func outputProveText(formatter *OutputFormatter, title string, result ProveResult) {
	w := formatter.Writer
	fmt.Fprintf(w, "%s  %s\n", result.Prop, title)
	if result.Complete {
		fmt.Fprintf(w, "✓ %d/%d steps\n", result.StepsCompleted, result.TotalSteps)
		if result.Conclusion != "" {
			fmt.Fprintf(w, "∴ %s\n", result.Conclusion)
		}
		return
	}
	fmt.Fprintf(w, "✗ broken: %d/%d steps\n", result.StepsCompleted, result.TotalSteps)
}

// parsePositions parses repeated "pID=x,y" overrides.
func parsePositions(specs []string) (map[string]geom.Pt, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string]geom.Pt, len(specs))
	for _, spec := range specs {
		id, coords, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("expected pID=x,y, got %q", spec)
		}
		xs, ys, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("expected pID=x,y, got %q", spec)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("bad x in %q: %w", spec, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("bad y in %q: %w", spec, err)
		}
		out[strings.TrimSpace(id)] = geom.Pt{X: x, Y: y}
	}
	return out, nil
}
