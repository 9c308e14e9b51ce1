package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/porism/porism/internal/engine"
	"github.com/porism/porism/internal/facts"
)

// TracePoint is one point in a trace, wire form.
type TracePoint struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Origin string  `json:"origin"`
}

// TraceStep is one authored step in a trace, wire form.
type TraceStep struct {
	Tool        string `json:"tool"`
	Instruction string `json:"instruction"`
	Citation    string `json:"citation"`
	Done        bool   `json:"done"`
}

// TraceFact is one proof line in a trace, wire form.
type TraceFact struct {
	Citation  string `json:"citation"`
	Statement string `json:"statement"`
	AtStep    string `json:"at_step"`
}

// TraceResult is the full trace of a replayed proposition.
type TraceResult struct {
	Prop       string       `json:"prop"`
	Title      string       `json:"title"`
	Complete   bool         `json:"complete"`
	Conclusion string       `json:"conclusion,omitempty"`
	Steps      []TraceStep  `json:"steps"`
	Points     []TracePoint `json:"points"`
	Facts      []TraceFact  `json:"facts"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <prop-id>",
		Short: "Print a proposition's proof script and derived state",
		Long: `Replay a proposition and print the full trace: the authored step
instructions with their citations, the derived points, and every line
of the fact ledger.

Examples:
  porism trace I.1
  porism trace I.3 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTrace(opts *RootOptions, propID string, cmd *cobra.Command) error {
	reg, err := buildRegistry(opts)
	if err != nil {
		return err
	}
	def, ok := reg.Lookup(propID)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown proposition: %s", propID))
	}

	res := engine.Replay(reg, def, nil, nil)

	result := TraceResult{
		Prop:       def.ID,
		Title:      def.Title,
		Complete:   res.Complete,
		Conclusion: res.Conclusion,
	}
	for i, step := range def.Steps {
		result.Steps = append(result.Steps, TraceStep{
			Tool:        string(step.Action.Tool()),
			Instruction: step.Instruction,
			Citation:    step.CitationKey,
			Done:        i < res.StepsCompleted,
		})
	}
	for _, p := range res.State.Points() {
		result.Points = append(result.Points, TracePoint{
			ID: p.ID, Label: p.Label, X: p.X, Y: p.Y, Origin: string(p.Origin),
		})
	}
	for _, f := range res.Facts {
		result.Facts = append(result.Facts, TraceFact{
			Citation:  f.Citation.Label(),
			Statement: f.Statement,
			AtStep:    stepRef(f.AtStep),
		})
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s  %s\n\n", def.ID, def.Title)
	for i, step := range result.Steps {
		marker := " "
		if step.Done {
			marker = "✓"
		}
		fmt.Fprintf(w, "%s %d. (%s) %s [%s]\n", marker, i+1, step.Tool, step.Instruction, step.Citation)
	}
	fmt.Fprintln(w)
	for _, p := range result.Points {
		fmt.Fprintf(w, "%s %s (%.4f, %.4f) %s\n", p.ID, p.Label, p.X, p.Y, p.Origin)
	}
	if len(result.Facts) > 0 {
		fmt.Fprintln(w)
		for _, f := range result.Facts {
			fmt.Fprintf(w, "[%s] %s @%s\n", f.Citation, f.Statement, f.AtStep)
		}
	}
	if res.Complete && res.Conclusion != "" {
		fmt.Fprintf(w, "\n∴ %s\n", res.Conclusion)
	}
	return nil
}

func stepRef(atStep int) string {
	switch atStep {
	case facts.AtGiven:
		return "given"
	case facts.AtConclusion:
		return "conclusion"
	}
	return strconv.Itoa(atStep)
}
