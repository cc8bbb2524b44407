package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/ailang/internal/repl"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "start an interactive session over the type engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.New(os.Stdout).Run()
		},
	}
}
