// ABOUTME: Action dispatcher: runs one hook's actions strictly in order
// ABOUTME: Applies per-kind side effects, the exit-code-2 blocking contract, and error isolation

package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/pi-hooks/internal/log"
	"github.com/mauromedda/pi-hooks/internal/session"
)

const (
	// blockExitCode is the bash exit status that vetoes a tool call.
	blockExitCode = 2

	defaultBlockReason = "Blocked by hook"
)

// Invocation is the event context a hook runs in.
type Invocation struct {
	SessionID string
	Event     EventID
	CWD       string
	Files     []string // session.idle only
	ToolName  string   // tool events only
	ToolArgs  map[string]any
	CanBlock  bool
}

func (inv Invocation) bashContext() BashContext {
	return BashContext{
		SessionID: inv.SessionID,
		Event:     inv.Event,
		CWD:       inv.CWD,
		Files:     inv.Files,
		ToolName:  inv.ToolName,
		ToolArgs:  inv.ToolArgs,
	}
}

// touchedFiles returns the files hasCodeChange inspects: the idle file set,
// or for tool events the file the tool targets.
func (inv Invocation) touchedFiles() []string {
	if inv.Files != nil {
		return inv.Files
	}
	if path := session.FilePathArg(inv.ToolArgs); path != "" {
		return []string{path}
	}
	return nil
}

// Result is the outcome of dispatching one hook.
type Result struct {
	Blocked bool
	Reason  string
}

// Dispatcher executes hook actions against a session.
type Dispatcher struct {
	client  SessionClient
	eval    *Evaluator
	exec    *Executor
	pending sync.WaitGroup
}

// NewDispatcher wires a dispatcher to the host client, evaluator, and executor.
func NewDispatcher(client SessionClient, eval *Evaluator, exec *Executor) *Dispatcher {
	return &Dispatcher{client: client, eval: eval, exec: exec}
}

// Run evaluates the hook's conditions and, if they hold, runs its actions
// in order. Failing actions are logged and skipped; only a bash exit code
// of 2 with inv.CanBlock stops the sequence and reports Blocked.
func (d *Dispatcher) Run(ctx context.Context, hook HookDefinition, inv Invocation) Result {
	if !d.eval.Allow(ctx, hook, inv) {
		return Result{}
	}

	for i, action := range hook.Actions {
		res, err := d.runAction(ctx, action, inv)
		if err != nil {
			log.Warn("hooks: %s action %d (%s) failed: %v", hook.Event, i, action, err)
			continue
		}
		if res.Blocked {
			log.With(log.Fields{"event": inv.Event, "session": inv.SessionID}).
				Infof("hook blocked: %s", res.Reason)
			return res
		}
	}

	log.With(log.Fields{"event": inv.Event, "session": inv.SessionID}).
		Infof("hook completed (%d actions)", len(hook.Actions))
	return Result{}
}

// Wait blocks until all pending session notifications were delivered or
// failed. It must not overlap with Run: call it once dispatching stopped.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

func (d *Dispatcher) runAction(ctx context.Context, action Action, inv Invocation) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch a := action.(type) {
	case CommandAction:
		return Result{}, d.runCommand(ctx, a, inv)
	case ToolAction:
		return Result{}, d.runTool(ctx, a, inv)
	case BashAction:
		return d.runBash(ctx, a, inv), nil
	default:
		return Result{}, fmt.Errorf("unsupported action %T", action)
	}
}

func (d *Dispatcher) runCommand(ctx context.Context, a CommandAction, inv Invocation) error {
	name := strings.TrimPrefix(a.Name, "/")
	req := CommandRequest{Name: name, Args: a.Args}

	cmds, err := d.client.Commands(ctx)
	if err != nil {
		log.Warn("hooks: listing commands: %v", err)
	} else if info, ok := findCommand(cmds, name); ok {
		req.Agent = info.Agent
		req.Model = info.Model
	} else if hint := suggestCommand(name, cmds); hint != "" {
		log.Warn("hooks: unknown command %q (did you mean %q?)", name, hint)
	}

	if err := d.client.RunCommand(ctx, inv.SessionID, req); err != nil {
		return fmt.Errorf("running command %q: %w", name, err)
	}
	return nil
}

func (d *Dispatcher) runTool(ctx context.Context, a ToolAction, inv Invocation) error {
	args, err := json.Marshal(a.Args)
	if err != nil {
		return fmt.Errorf("encoding %s args: %w", a.Name, err)
	}
	text := fmt.Sprintf("Use the %s tool with these arguments: %s", a.Name, args)
	if err := d.client.Prompt(ctx, inv.SessionID, text); err != nil {
		return fmt.Errorf("prompting %s tool: %w", a.Name, err)
	}
	return nil
}

func (d *Dispatcher) runBash(ctx context.Context, a BashAction, inv Invocation) Result {
	res := d.exec.Run(ctx, a.Command, a.Timeout, inv.bashContext(), inv.CWD)
	blocked := inv.CanBlock && res.ExitCode == blockExitCode

	d.notify(ctx, inv.SessionID, statusLine(a.Command, res, blocked))

	if blocked {
		reason := strings.TrimSpace(res.Stderr)
		if reason == "" {
			reason = defaultBlockReason
		}
		return Result{Blocked: true, Reason: reason}
	}
	if res.ExitCode != 0 {
		log.Warn("hooks: %s bash %q exited %d: %s",
			inv.Event, a.Command, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return Result{}
}

// notify posts text into the session on its own goroutine. Failures are
// only logged and never change the dispatch outcome.
func (d *Dispatcher) notify(ctx context.Context, sessionID, text string) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Warn("hooks: notify panic: %v", r)
			}
		}()
		if err := d.client.Notify(context.WithoutCancel(ctx), sessionID, text); err != nil {
			log.Warn("hooks: notify session %s: %v", sessionID, err)
		}
	}()
}

func findCommand(cmds []CommandInfo, name string) (CommandInfo, bool) {
	for _, c := range cmds {
		if c.Name == name {
			return c, true
		}
	}
	return CommandInfo{}, false
}

func suggestCommand(name string, cmds []CommandInfo) string {
	if len(cmds) == 0 {
		return ""
	}
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
