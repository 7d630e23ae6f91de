// Package cli is the terminal front end of the classifier.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/aiact-classifier/internal/config"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/ai/provider"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"

	// newClient builds the AI collaborator; tests swap it out.
	newClient func(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (ai.Client, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the classify CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{newClient: provider.New})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "EU AI Act risk classification",
		Long: `Walk through the EU AI Act risk checks for an AI use case.

Every step is pre-assessed by an LLM; you confirm or override it.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.ResolvePath(), "config file (env CONFIG_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewUseCasesCommand(opts))
	cmd.AddCommand(NewCiteCommand(opts))

	return cmd
}

// logger is a no-op unless --verbose is set.
func (o *RootOptions) logger(cfg config.LogConfig) (*zap.Logger, error) {
	if !o.Verbose {
		return zap.NewNop(), nil
	}
	cfg.Development = true
	return config.NewLogger(cfg)
}
