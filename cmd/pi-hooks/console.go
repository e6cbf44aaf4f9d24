// ABOUTME: Console SessionClient: stands in for the interactive runtime during replays
// ABOUTME: Prints commands, prompts, and notifications per session with fatih/color

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/mauromedda/pi-hooks/internal/commands"
	"github.com/mauromedda/pi-hooks/internal/hooks"
)

// consoleClient implements hooks.SessionClient by writing to out. It is
// safe for concurrent use; notifications arrive from dispatcher goroutines.
type consoleClient struct {
	mu       sync.Mutex
	out      io.Writer
	catalog  *commands.Catalog
	sessions map[string]hooks.SessionInfo

	label   *color.Color
	command *color.Color
	prompt  *color.Color
	note    *color.Color
	blocked *color.Color
}

var _ hooks.SessionClient = (*consoleClient)(nil)

func newConsoleClient(out io.Writer, catalog *commands.Catalog, colorize bool) *consoleClient {
	c := &consoleClient{
		out:      out,
		catalog:  catalog,
		sessions: make(map[string]hooks.SessionInfo),
		label:    color.New(color.Faint),
		command:  color.New(color.FgCyan, color.Bold),
		prompt:   color.New(color.FgMagenta),
		note:     color.New(color.FgWhite),
		blocked:  color.New(color.FgRed, color.Bold),
	}
	for _, col := range []*color.Color{c.label, c.command, c.prompt, c.note, c.blocked} {
		if colorize {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *consoleClient) addSession(info hooks.SessionInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[info.ID] = info
}

func (c *consoleClient) removeSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

func (c *consoleClient) Session(_ context.Context, id string) (hooks.SessionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.sessions[id]
	if !ok {
		return hooks.SessionInfo{}, fmt.Errorf("unknown session %q", id)
	}
	return info, nil
}

func (c *consoleClient) Commands(context.Context) ([]hooks.CommandInfo, error) {
	return c.catalog.Infos(), nil
}

func (c *consoleClient) RunCommand(_ context.Context, sessionID string, req hooks.CommandRequest) error {
	cmd, ok := c.catalog.Lookup(req.Name)
	if !ok {
		if hints := c.catalog.Suggest(req.Name, 1); len(hints) > 0 {
			return fmt.Errorf("unknown command %q (did you mean %q?)", req.Name, hints[0])
		}
		return fmt.Errorf("unknown command %q", req.Name)
	}

	head := "/" + req.Name
	if req.Args != "" {
		head += " " + req.Args
	}
	var binding []string
	if req.Agent != "" {
		binding = append(binding, "agent="+req.Agent)
	}
	if req.Model != "" {
		binding = append(binding, "model="+req.Model)
	}
	if len(binding) > 0 {
		head += " (" + strings.Join(binding, " ") + ")"
	}

	c.print(sessionID, c.command.Sprint("▶ "+head))
	if body := cmd.Expand(req.Args); body != "" {
		c.print(sessionID, indent(body))
	}
	return nil
}

func (c *consoleClient) Prompt(_ context.Context, sessionID, text string) error {
	c.print(sessionID, c.prompt.Sprint("💬 "+text))
	return nil
}

func (c *consoleClient) Notify(_ context.Context, sessionID, text string) error {
	c.print(sessionID, c.note.Sprint(text))
	return nil
}

// reportBlocked prints a vetoed tool call.
func (c *consoleClient) reportBlocked(sessionID, tool, reason string) {
	c.print(sessionID, c.blocked.Sprintf("⛔ %s blocked: %s", tool, reason))
}

func (c *consoleClient) print(sessionID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", c.label.Sprintf("[%s]", sessionID), text)
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
