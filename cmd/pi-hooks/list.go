// ABOUTME: "list" subcommand: prints the merged hook map in dispatch order
// ABOUTME: --docs renders the prose of each layer's hooks.md with glamour

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/glamour"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/hooks"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var docs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the merged hook map",
		Example: heredoc.Doc(`
			pi-hooks list
			pi-hooks list --docs -C ~/src/app
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := opts.loadHooks(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			st := newStyler(out)
			renderHookTable(out, st, m, opts.project)
			if docs {
				return renderDocs(out, st, opts.project)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&docs, "docs", false, "Also render the Markdown body of each hooks.md")
	return cmd
}

func renderHookTable(out io.Writer, st styler, m hooks.EventHookMap, project string) {
	if m.Count() == 0 {
		fmt.Fprintln(out, "No hooks configured.")
		return
	}

	events := make([]string, 0, len(m))
	for e := range m {
		events = append(events, string(e))
	}
	sort.Strings(events)

	table := uitable.New()
	table.MaxColWidth = uint(max(st.width/2, 20))
	table.AddRow(st.heading("EVENT"), st.heading("CONDITIONS"), st.heading("ACTIONS"), st.heading("SOURCE"))
	for _, e := range events {
		for _, def := range m[hooks.EventID(e)] {
			table.AddRow(e, conditionsLabel(def.Conditions), actionsLabel(def.Actions, st.width/2), shortSource(def.Source, project))
		}
	}
	fmt.Fprintln(out, table)
	fmt.Fprintln(out, st.dim(fmt.Sprintf("%d hooks across %d events", m.Count(), len(events))))
}

func conditionsLabel(conds []hooks.Condition) string {
	if conds == nil {
		return "-"
	}
	if len(conds) == 0 {
		return "[]"
	}
	names := make([]string, len(conds))
	for i, c := range conds {
		names[i] = string(c)
	}
	return strings.Join(names, ",")
}

func actionsLabel(actions []hooks.Action, width int) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return truncate(strings.Join(parts, "; "), width)
}

// shortSource makes source paths relative to the project or home directory.
func shortSource(source, project string) string {
	if rel, err := filepath.Rel(project, source); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	if home, err := os.UserHomeDir(); err == nil {
		if rel, err := filepath.Rel(home, source); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join("~", rel)
		}
	}
	return source
}

func renderDocs(out io.Writer, st styler, project string) error {
	style := "notty"
	if st.tty {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(st.width),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}

	for _, path := range config.HookFiles(project) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		body := strings.TrimSpace(config.ParseDocument(string(data)).Body)
		if body == "" {
			continue
		}
		rendered, err := renderer.Render(body)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", path, err)
		}
		fmt.Fprintf(out, "\n%s\n%s", st.heading(shortSource(path, project)), rendered)
	}
	return nil
}
