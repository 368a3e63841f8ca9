// Package cli provides the verifier CLI's command tree. It is a thin
// presentation layer over internal/verifier.Orchestrator,
// internal/config, and internal/diag: every decision about what is
// correct AS3/MXML-family source lives in the core, not here.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/db"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "verifier",
		Short: "Semantic verifier for an ActionScript-3/MXML-family language",
		Long: `verifier - semantic verifier core

verifier drives a set of parsed compilation units (JSON-encoded
syntax trees; see internal/ast) through entity interning, name
resolution, conversion checking, and inheritance/override checking to
a fixed point, reporting every diagnostic the core's directive,
expression, and statement subverifiers record.`,
		Version:      config.Version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug-level logging of phase/cycle bookkeeping")
	rootCmd.PersistentFlags().String("config", "", "Path to whack.config.yaml (defaults to zero-configuration CompilerOptions)")

	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewDiagnosticsCmd())
	rootCmd.AddCommand(NewExplainCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("verifier %s\n", config.Version)
			if config.BuildDate != "unknown" {
				cmd.Printf("Built: %s\n", config.BuildDate)
			}
			if config.Commit != "none" {
				cmd.Printf("Commit: %s\n", config.Commit)
			}
		},
	}
}

// loadOptions resolves the --config flag into a CompilerOptions,
// falling back to config.Default() when the flag is empty -- the
// same "optional override, sensible zero-configuration default"
// pattern internal/config/options.go documents for Load/Default.
func loadOptions(cmd *cobra.Command) (*config.CompilerOptions, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// loggerFor builds the run's logger from the --debug flag. The
// returned logger's Sync error is deliberately not the caller's
// problem to handle -- stderr/console encoders routinely return one
// on process exit and it carries no actionable signal here.
func loggerFor(cmd *cobra.Command) (*zap.Logger, error) {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, err
	}
	return db.NewLogger(debug)
}
