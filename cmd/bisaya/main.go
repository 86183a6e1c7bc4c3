package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "bisaya [file]",
		Short:         "Run a Bisaya++ program",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tui, _ := cmd.Flags().GetBool("tui"); tui {
				return runTUI(args[0])
			}
			return runPlain(args[0])
		},
	}
	root.Flags().Bool("tui", false, "run inside the terminal frontend")
	root.AddCommand(newReplCmd(), newDumpCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
