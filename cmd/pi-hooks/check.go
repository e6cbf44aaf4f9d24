// ABOUTME: "check" subcommand: reports hook definitions each layer dropped and why
// ABOUTME: --watch re-checks whenever a hooks.md changes until interrupted

package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/hooks"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate hook definitions in every layer",
		Long: heredoc.Doc(`
			Parses the global and project hooks.md and lists every definition
			that would be skipped at load time, with the reason. Exits with
			status 1 when anything was dropped.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			st := newStyler(out)
			if !watch {
				return runCheck(out, st, opts.project)
			}
			return watchCheck(cmd, st, opts.project)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run the check when a hooks.md changes")
	return cmd
}

// runCheck validates every layer and returns an exitError when entries
// were dropped.
func runCheck(out io.Writer, st styler, project string) error {
	table := uitable.New()
	table.MaxColWidth = uint(max(st.width-20, 40))
	table.Wrap = true
	table.AddRow(st.heading("LAYER"), st.heading("HOOKS"), st.heading("DROPPED"))

	var all []hooks.Issue
	for _, dir := range config.HookLayerDirs(project) {
		m, issues := hooks.LoadDirWithIssues(dir)
		dropped := st.ok("0")
		if len(issues) > 0 {
			dropped = st.bad(fmt.Sprint(len(issues)))
		}
		table.AddRow(shortSource(config.HooksFile(dir), project), m.Count(), dropped)
		all = append(all, issues...)
	}
	fmt.Fprintln(out, table)

	if len(all) == 0 {
		fmt.Fprintln(out, st.ok("All hook definitions are valid."))
		return nil
	}

	fmt.Fprintln(out)
	for _, issue := range all {
		issue.Source = shortSource(issue.Source, project)
		fmt.Fprintf(out, "%s %s\n", st.bad("✗"), issue)
	}
	return &exitError{code: 1, err: fmt.Errorf("%d hook definitions dropped", len(all))}
}

func watchCheck(cmd *cobra.Command, st styler, project string) error {
	out := cmd.OutOrStdout()
	var mu sync.Mutex
	check := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := runCheck(out, st, project); err != nil {
			fmt.Fprintln(out, st.bad(err.Error()))
		}
	}

	check()

	w := config.NewWatcher(config.HookFiles(project), func() {
		fmt.Fprintln(out, st.dim("\nhooks changed, re-checking…"))
		check()
	})
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching hooks: %w", err)
	}
	defer w.Stop()

	fmt.Fprintln(out, st.dim("Watching for changes. Press Ctrl+C to stop."))
	<-cmd.Context().Done()
	return nil
}
