package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/porism/porism/internal/config"
	"github.com/porism/porism/internal/loader"
	"github.com/porism/porism/internal/prop"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Packs   string // optional proposition pack directory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the porism CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "porism",
		Short: "porism - a compass and straightedge proof engine",
		Long:  "Guided Euclidean constructions: validate proposition packs, replay proofs, and manage saved creations.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return setupLogging(opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Packs, "packs", "", "proposition pack directory (CUE)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewProveCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewCreationsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// setupLogging installs the default slog logger at the configured
// level. The verbose flag forces debug regardless of environment.
func setupLogging(opts *RootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// buildRegistry returns the built-in propositions, extended with the
// packs directory when one is configured. Pack load failures are
// command errors; an empty packs flag falls back to the environment.
func buildRegistry(opts *RootOptions) (*prop.Registry, error) {
	reg := prop.Builtins()

	dir := opts.Packs
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "loading configuration", err)
		}
		dir = cfg.PropsDir
	}
	if dir == "" {
		return reg, nil
	}

	result, errs := loader.LoadIntoRegistry(reg, dir, loader.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError, "loading proposition packs", errs[0])
	}
	slog.Debug("loaded proposition packs", "dir", dir, "files", result.FileCount, "defs", len(result.Defs))
	return reg, nil
}
