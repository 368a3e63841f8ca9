// Package main provides end-to-end tests for the verifier CLI using
// testscript, following jmgilman-sow/cli/cli_test.go's structure.
package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/whackengine/verifier/internal/cli"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"verifier": func() {
			rootCmd := cli.NewRootCmd()
			if err := rootCmd.Execute(); err != nil {
				os.Exit(1)
			}
		},
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
