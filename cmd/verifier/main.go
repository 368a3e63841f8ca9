package main

import (
	"os"

	"github.com/whackengine/verifier/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
