package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whackengine/verifier/internal/diag"
)

// NewDiagnosticsCmd creates the diagnostics command, a reference
// listing of every diagnostic kind the core can emit.
func NewDiagnosticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "List every diagnostic kind the verifier core can emit",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range diag.AllKinds() {
				severity := "error"
				if k.DefaultSeverity() == diag.SeverityWarning {
					severity = "warning"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-45s %-8s %s\n", k, severity, k.Explain())
			}
			return nil
		},
	}
}
