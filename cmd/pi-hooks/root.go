// ABOUTME: Root cobra command: project resolution, settings loading, log level
// ABOUTME: Builds the hook engine shared by the list, check, and fire subcommands

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/hooks"
	"github.com/mauromedda/pi-hooks/internal/log"
	"github.com/mauromedda/pi-hooks/internal/session"
)

type rootOptions struct {
	project  string
	logLevel string
	settings *config.Settings
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pi-hooks",
		Short: "Inspect, validate, and replay pi-go hook definitions",
		Long: heredoc.Doc(`
			pi-hooks works with the hook definitions pi-go loads from
			~/.pi-go/hooks.md (global) and <project>/.pi-go/hooks.md (project).

			Hooks run commands, tool prompts, or shell scripts on session
			lifecycle events (session.created, session.idle, session.deleted)
			and around tool calls (tool.before.<tool>, tool.after.<tool>,
			with * matching every tool). A bash action in a before hook that
			exits with status 2 blocks the tool call.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.init()
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVarP(&opts.project, "project", "C", "", "Project root (default: current directory)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newListCommand(opts),
		newCheckCommand(opts),
		newFireCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func (o *rootOptions) init() error {
	root := o.project
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		root = cwd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving project %s: %w", root, err)
	}
	o.project = abs

	settings, err := config.Load(abs)
	if err != nil {
		return err
	}
	o.settings = settings

	level := o.logLevel
	if level == "" {
		level = settings.LogLevel
	}
	log.SetLevel(log.ParseLevel(level))
	return nil
}

func (o *rootOptions) loadHooks(ctx context.Context) (hooks.EventHookMap, error) {
	return hooks.LoadLayers(ctx, config.HookLayerDirs(o.project)...)
}

// newRouter wires the engine for client with the merged hook map.
func (o *rootOptions) newRouter(ctx context.Context, client hooks.SessionClient) (*hooks.Router, error) {
	m, err := o.loadHooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hooks: %w", err)
	}

	exec := hooks.NewExecutor(hooks.ExecutorConfig{
		Shell:          o.settings.Shell,
		ProjectDir:     o.project,
		DefaultTimeout: o.settings.BashTimeout(),
		ProjectDirEnv:  o.settings.ProjectDirEnv,
		SessionIDEnv:   o.settings.SessionIDEnv,
	})
	d := hooks.NewDispatcher(client, hooks.NewEvaluator(client), exec)
	return hooks.NewRouter(m, session.NewStore(), d, o.project), nil
}
