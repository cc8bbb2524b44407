// Command ailang is the command-line front end for the set-theoretic type
// engine: a small surface for building types from YAML scenario files,
// checking subtyping/emptiness, and tallying constraints, plus an
// interactive REPL for exploring the same operations live.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ailang",
		Short: "set-theoretic type engine CLI",
	}
	root.AddCommand(newReplCmd())
	root.AddCommand(newCheckCmd())
	return root
}
