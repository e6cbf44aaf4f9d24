// ABOUTME: "fire" subcommand: replays a JSON-lines event script through the hook engine
// ABOUTME: Uses the console host; exits 2 when any replayed tool call was blocked

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-hooks/internal/commands"
	"github.com/mauromedda/pi-hooks/internal/hooks"
)

// Script event kinds.
const (
	kindSessionCreated = "session.created"
	kindSessionIdle    = "session.idle"
	kindSessionDeleted = "session.deleted"
	kindToolBefore     = "tool.before"
	kindToolAfter      = "tool.after"
)

// blockedExitCode is the process status when a tool call was vetoed.
const blockedExitCode = 2

// scriptEvent is one line of an event script.
type scriptEvent struct {
	Event   string         `json:"event"`
	Session string         `json:"session"`
	Parent  string         `json:"parent,omitempty"`
	Title   string         `json:"title,omitempty"`
	Tool    string         `json:"tool,omitempty"`
	CallID  string         `json:"call_id,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
}

func newFireCommand(opts *rootOptions) *cobra.Command {
	var forceColor bool

	cmd := &cobra.Command{
		Use:   "fire [script.jsonl|-]",
		Short: "Replay an event script through the hook engine",
		Long: heredoc.Doc(`
			Reads one JSON event per line and feeds it to the hook engine as
			the interactive runtime would. Blank lines and lines starting
			with # are ignored. Event kinds:

			  {"event":"session.created","session":"s1","parent":""}
			  {"event":"tool.before","session":"s1","tool":"write","call_id":"c1","args":{"filePath":"main.go"}}
			  {"event":"tool.after","session":"s1","tool":"write","call_id":"c1"}
			  {"event":"session.idle","session":"s1"}
			  {"event":"session.deleted","session":"s1"}

			A tool.before without call_id gets a generated one, which the next
			tool.after for the same session and tool without call_id reuses.
			Exits with status 2 if any tool call was blocked.
		`),
		Example: heredoc.Doc(`
			pi-hooks fire session.jsonl
			printf '%s\n' '{"event":"session.idle","session":"s1"}' | pi-hooks fire -
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeFn, err := openScript(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			defer closeFn()

			events, err := parseScript(in)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			catalog, err := commands.LoadProject(ctx, opts.project)
			if err != nil {
				return fmt.Errorf("loading commands: %w", err)
			}
			client := newConsoleClient(out, catalog, forceColor || newStyler(out).tty)
			router, err := opts.newRouter(ctx, client)
			if err != nil {
				return err
			}

			blocked := replay(ctx, router, client, events)
			router.Wait()
			renderStats(out, newStyler(out), router.Stats())

			if blocked > 0 {
				return &exitError{code: blockedExitCode, err: fmt.Errorf("%d tool calls blocked", blocked)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&forceColor, "color", false, "Force colored session output")
	return cmd
}

func openScript(stdin io.Reader, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("opening script: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// parseScript decodes and validates every event line. Tool calls lacking a
// call id are paired up here so the replay sees complete events.
func parseScript(r io.Reader) ([]scriptEvent, error) {
	var events []scriptEvent
	openCalls := make(map[string][]string) // session+tool -> generated ids, oldest first

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var ev scriptEvent
		if err := sonic.UnmarshalString(text, &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := ev.validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		key := ev.Session + "\x00" + ev.Tool
		switch {
		case ev.Event == kindToolBefore && ev.CallID == "":
			ev.CallID = uuid.NewString()
			openCalls[key] = append(openCalls[key], ev.CallID)
		case ev.Event == kindToolAfter && ev.CallID == "":
			if ids := openCalls[key]; len(ids) > 0 {
				ev.CallID = ids[0]
				openCalls[key] = ids[1:]
			} else {
				ev.CallID = uuid.NewString()
			}
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return events, nil
}

func (ev scriptEvent) validate() error {
	if ev.Session == "" {
		return errors.New("session is required")
	}
	switch ev.Event {
	case kindSessionCreated, kindSessionIdle, kindSessionDeleted:
		return nil
	case kindToolBefore, kindToolAfter:
		if ev.Tool == "" {
			return fmt.Errorf("%s requires a tool", ev.Event)
		}
		return nil
	default:
		return fmt.Errorf("unknown event %q", ev.Event)
	}
}

// replay feeds events to the router in order and returns how many tool
// calls were blocked. It stops early when ctx is canceled.
func replay(ctx context.Context, router *hooks.Router, client *consoleClient, events []scriptEvent) int {
	blocked := 0
	for _, ev := range events {
		if ctx.Err() != nil {
			break
		}
		switch ev.Event {
		case kindSessionCreated:
			info := hooks.SessionInfo{ID: ev.Session, ParentID: ev.Parent, Title: ev.Title}
			client.addSession(info)
			router.SessionCreated(ctx, info)
		case kindSessionIdle:
			router.SessionIdle(ctx, ev.Session)
		case kindSessionDeleted:
			router.SessionDeleted(ctx, ev.Session)
			client.removeSession(ev.Session)
		case kindToolBefore:
			err := router.ToolBefore(ctx, hooks.ToolCall{
				SessionID: ev.Session, CallID: ev.CallID, Tool: ev.Tool, Args: ev.Args,
			})
			var be *hooks.BlockedError
			if errors.As(err, &be) {
				client.reportBlocked(ev.Session, be.Tool, be.Reason)
				blocked++
			}
		case kindToolAfter:
			router.ToolAfter(ctx, hooks.ToolCall{
				SessionID: ev.Session, CallID: ev.CallID, Tool: ev.Tool, Args: ev.Args,
			})
		}
	}
	return blocked
}

func renderStats(out io.Writer, st styler, stats map[hooks.EventID]int) {
	if len(stats) == 0 {
		fmt.Fprintln(out, st.dim("No hooks ran."))
		return
	}
	events := make([]string, 0, len(stats))
	for e := range stats {
		events = append(events, string(e))
	}
	sort.Strings(events)

	table := uitable.New()
	table.AddRow(st.heading("EVENT"), st.heading("HOOKS RUN"))
	for _, e := range events {
		table.AddRow(e, stats[hooks.EventID(e)])
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, table)
}
