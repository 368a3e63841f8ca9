package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whackengine/verifier/internal/diag"
)

// NewExplainCmd creates the explain command.
func NewExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <kind>",
		Short: "Explain one diagnostic kind by name",
		Example: `  verifier explain MustOverrideAMethod
  verifier explain ReachedMaximumCycles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := diag.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown diagnostic kind %q (run `verifier diagnostics` for the full list)", args[0])
			}
			severity := "error"
			if k.DefaultSeverity() == diag.SeverityWarning {
				severity = "warning"
			}
			cmd.Printf("%s (%s)\n  %s\n", k, severity, k.Explain())
			return nil
		},
	}
}
