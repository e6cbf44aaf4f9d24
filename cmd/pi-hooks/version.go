// ABOUTME: "version" subcommand
// ABOUTME: Prints the build version, commit, and date stamped in at link time

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pi-hooks %s (%s) built %s\n", version, commit, date)
			return nil
		},
	}
}
