package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/porism/porism/internal/config"
	"github.com/porism/porism/internal/engine"
	"github.com/porism/porism/internal/store"
)

// CreationsOptions holds flags shared by the creations subcommands.
type CreationsOptions struct {
	*RootOptions
	Database string
}

// CreationSummary is the wire form of one saved creation.
type CreationSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Prop      string `json:"prop"`
	LogHash   string `json:"log_hash"`
	UpdatedAt string `json:"updated_at"`
}

// NewCreationsCommand creates the creations command group.
func NewCreationsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreationsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "creations",
		Short: "Manage saved creations",
		Long: `Manage saved creations: completed proofs with their dragged given
positions and post-completion action log. A creation stores only its
inputs; the construction is rebuilt by replay on load.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to $PORISM_DB)")

	cmd.AddCommand(newCreationsSaveCommand(opts))
	cmd.AddCommand(newCreationsListCommand(opts))
	cmd.AddCommand(newCreationsShowCommand(opts))
	cmd.AddCommand(newCreationsDeleteCommand(opts))

	return cmd
}

// openStore opens the configured database, preferring the --db flag
// over the environment.
func openStore(opts *CreationsOptions) (*store.Store, error) {
	path := opts.Database
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "loading configuration", err)
		}
		path = cfg.DBPath
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func newCreationsSaveCommand(opts *CreationsOptions) *cobra.Command {
	var name string
	var at []string

	cmd := &cobra.Command{
		Use:   "save <prop-id>",
		Short: "Save a completed proof as a creation",
		Long: `Replay a proposition under the given positions and save it as a
creation. A proof that breaks under the positions is not saved.

Examples:
  porism creations save I.1 --name "my triangle"
  porism creations save I.2 --at p3=2.5,0.4 --db ./porism.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreationsSave(opts, args[0], name, at, cmd)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name for the creation")
	cmd.Flags().StringArrayVar(&at, "at", nil, "override a given point position, e.g. p2=1.5,0.3 (repeatable)")

	return cmd
}

func runCreationsSave(opts *CreationsOptions, propID, name string, at []string, cmd *cobra.Command) error {
	reg, err := buildRegistry(opts.RootOptions)
	if err != nil {
		return err
	}
	def, ok := reg.Lookup(propID)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown proposition: %s", propID))
	}

	positions, err := parsePositions(at)
	if err != nil {
		return WrapExitError(ExitCommandError, "parsing --at", err)
	}

	res := engine.Replay(reg, def, positions, nil)
	if !res.Complete {
		return NewExitError(ExitFailure, fmt.Sprintf("proof broken under these positions: %d/%d steps", res.StepsCompleted, res.TotalSteps))
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	saved, err := st.SaveCreation(context.Background(), store.Creation{
		Name:           name,
		PropID:         propID,
		GivenPositions: positions,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "saving creation", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if formatter.Format == "json" {
		return formatter.Success(summarize(saved))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ saved %s (%s)\n", saved.ID, propID)
	return nil
}

func newCreationsListCommand(opts *CreationsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved creations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			creations, err := st.ListCreations(context.Background())
			if err != nil {
				return WrapExitError(ExitCommandError, "listing creations", err)
			}

			if opts.Format == "json" {
				summaries := make([]CreationSummary, 0, len(creations))
				for _, c := range creations {
					summaries = append(summaries, summarize(c))
				}
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(CLIResponse{Status: "ok", Data: summaries})
			}

			w := cmd.OutOrStdout()
			if len(creations) == 0 {
				fmt.Fprintln(w, "No creations saved.")
				return nil
			}
			for _, c := range creations {
				name := c.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Fprintf(w, "%s  %-6s %s\n", c.ID, c.PropID, name)
			}
			return nil
		},
	}
}

func newCreationsShowCommand(opts *CreationsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Replay a saved creation and show its state",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			c, err := st.GetCreation(context.Background(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return NewExitError(ExitCommandError, fmt.Sprintf("no creation with id %s", args[0]))
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "loading creation", err)
			}

			reg, err := buildRegistry(opts.RootOptions)
			if err != nil {
				return err
			}
			def, ok := reg.Lookup(c.PropID)
			if !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("creation references unknown proposition %s", c.PropID))
			}

			res := engine.Replay(reg, def, c.GivenPositions, c.ExtraLog)

			if opts.Format == "json" {
				data := struct {
					CreationSummary
					Complete   bool   `json:"complete"`
					Conclusion string `json:"conclusion,omitempty"`
				}{summarize(c), res.Complete, res.Conclusion}
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(CLIResponse{Status: "ok", Data: data})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s  %s  %s\n", c.ID, c.PropID, c.Name)
			fmt.Fprintf(w, "log hash: %s\n", c.LogHash)
			if res.Complete {
				fmt.Fprintf(w, "✓ replays complete")
				if res.Conclusion != "" {
					fmt.Fprintf(w, ": %s", res.Conclusion)
				}
				fmt.Fprintln(w)
				return nil
			}
			fmt.Fprintf(w, "✗ broken under saved positions: %d/%d steps\n", res.StepsCompleted, res.TotalSteps)
			return nil
		},
	}
}

func newCreationsDeleteCommand(opts *CreationsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a saved creation",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			deleted, err := st.DeleteCreation(context.Background(), args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "deleting creation", err)
			}
			if !deleted {
				return NewExitError(ExitCommandError, fmt.Sprintf("no creation with id %s", args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ deleted %s\n", args[0])
			return nil
		},
	}
}

func summarize(c store.Creation) CreationSummary {
	return CreationSummary{
		ID:        c.ID,
		Name:      c.Name,
		Prop:      c.PropID,
		LogHash:   c.LogHash,
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
