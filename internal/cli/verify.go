package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/verifier"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file-pattern>...",
		Short: "Run one or more JSON-encoded compilation units through the verifier",
		Long: `Verify reads every file matching each glob pattern as a JSON-encoded
compilation unit (internal/ast.DecodeTree's wire format), registers
them together as one Orchestrator run, and reports every diagnostic
the directive/expression/statement subverifiers record.

A pattern with no glob metacharacters that also does not match any
file on disk is treated as a literal path, so a single file needs no
quoting.`,
		Example: `  # Verify a single file
  verifier verify src/pkg/Foo.json

  # Verify every unit in a package, resolved as one run
  verifier verify 'src/pkg/*.json'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args)
		},
	}

	return cmd
}

func runVerify(cmd *cobra.Command, patterns []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := loggerFor(cmd)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}

	o := verifier.New(opts, logger)

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "✗ %s: %v\n", file, err)
			return fmt.Errorf("opening %s: %w", file, err)
		}
		tree, err := ast.DecodeTree(f)
		closeErr := f.Close()
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "✗ %s: %v\n", file, err)
			return fmt.Errorf("decoding %s: %w", file, err)
		}
		if closeErr != nil {
			return fmt.Errorf("closing %s: %w", file, closeErr)
		}
		o.AddUnit(tree)
	}

	diags, err := o.Run()
	if err != nil {
		return fmt.Errorf("verification run: %w", err)
	}

	return reportDiagnostics(cmd, opts, files, diags)
}

// reportDiagnostics prints a ✓/✗ line per verified file (✗ once it
// carries at least one diagnostic promoted to an error by opts), then
// every diagnostic grouped under its compilation unit, mirroring the
// teacher's own validate command's per-file summary shape.
func reportDiagnostics(cmd *cobra.Command, opts *config.CompilerOptions, files []string, diags []diag.Diagnostic) error {
	byUnit := make(map[string][]diag.Diagnostic)
	for _, d := range diags {
		byUnit[d.Loc.CompilationUnit] = append(byUnit[d.Loc.CompilationUnit], d)
	}

	failed := 0
	for _, file := range files {
		unitDiags := byUnit[file]
		hasError := false
		for _, d := range unitDiags {
			if d.Severity == diag.SeverityError || opts.IsWarningPromoted(d.Kind.String()) {
				hasError = true
				break
			}
		}

		if hasError {
			failed++
			fmt.Fprintf(cmd.OutOrStderr(), "✗ %s\n", file)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", file)
		}
		for _, d := range unitDiags {
			severity := "error"
			if d.Severity == diag.SeverityWarning {
				severity = "warning"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", severity, d)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n")
	if failed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) verified, no errors\n", len(files))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStderr(), "%d of %d file(s) have errors\n", failed, len(files))
	return fmt.Errorf("verification failed for %d file(s)", failed)
}
