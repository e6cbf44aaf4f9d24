// ABOUTME: "config" subcommand: shows the effective engine settings and file locations
// ABOUTME: Values reflect global, project, and PI_HOOKS_* environment layering

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-hooks/internal/config"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective engine settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.Explain(opts.settings, opts.project))
			return nil
		},
	}
}
