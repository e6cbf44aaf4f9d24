// ABOUTME: Tests for the dispatcher: per-kind side effects, ordering, error isolation
// ABOUTME: Verifies the exit-code-2 blocking contract and asynchronous notifications

//go:build unix

package hooks

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestDispatcher(t *testing.T, client *fakeClient) (*Dispatcher, string) {
	t.Helper()
	dir := t.TempDir()
	exec := NewExecutor(ExecutorConfig{ProjectDir: dir})
	return NewDispatcher(client, NewEvaluator(client), exec), dir
}

func TestDispatcher_CommandResolvesAgentAndModel(t *testing.T) {
	t.Parallel()

	client := newFakeClient(SessionInfo{ID: "s1"})
	client.commands = []CommandInfo{{Name: "review", Agent: "reviewer", Model: "fast"}}
	d, _ := newTestDispatcher(t, client)

	hook := HookDefinition{Event: EventSessionIdle, Actions: []Action{
		CommandAction{Name: "/review", Args: "--quick"},
	}}
	d.Run(context.Background(), hook, Invocation{SessionID: "s1", Event: EventSessionIdle})

	ran := client.ranCommands()
	if len(ran) != 1 {
		t.Fatalf("expected 1 command, got %d", len(ran))
	}
	want := CommandRequest{Name: "review", Args: "--quick", Agent: "reviewer", Model: "fast"}
	if ran[0] != want {
		t.Errorf("request = %+v, want %+v", ran[0], want)
	}
}

func TestDispatcher_UnknownCommandStillRuns(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.commands = []CommandInfo{{Name: "review"}}
	d, _ := newTestDispatcher(t, client)

	hook := HookDefinition{Event: EventSessionIdle, Actions: []Action{CommandAction{Name: "reveiw"}}}
	d.Run(context.Background(), hook, Invocation{SessionID: "s1"})

	ran := client.ranCommands()
	if len(ran) != 1 || ran[0].Name != "reveiw" || ran[0].Agent != "" {
		t.Errorf("unexpected requests %+v", ran)
	}
}

func TestDispatcher_ToolPrompt(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	d, _ := newTestDispatcher(t, client)

	hook := HookDefinition{Event: EventSessionIdle, Actions: []Action{
		ToolAction{Name: "read", Args: map[string]any{"filePath": "a.go"}},
	}}
	d.Run(context.Background(), hook, Invocation{SessionID: "s1"})

	prompts := client.sentPrompts()
	want := `Use the read tool with these arguments: {"filePath":"a.go"}`
	if len(prompts) != 1 || prompts[0] != want {
		t.Errorf("prompts = %q", prompts)
	}
}

func TestDispatcher_FailuresDoNotStopSequence(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.runErr = errors.New("boom")
	client.promptErr = errors.New("boom")
	d, _ := newTestDispatcher(t, client)

	hook := HookDefinition{Event: EventSessionIdle, Actions: []Action{
		CommandAction{Name: "a"},
		ToolAction{Name: "t", Args: map[string]any{}},
		BashAction{Command: "exit 5"},
		CommandAction{Name: "b"},
	}}
	res := d.Run(context.Background(), hook, Invocation{SessionID: "s1", Event: EventSessionIdle})
	d.Wait()

	if res.Blocked {
		t.Error("idle hooks cannot block")
	}
	if ran := client.ranCommands(); len(ran) != 2 || ran[1].Name != "b" {
		t.Errorf("expected both commands to run, got %+v", ran)
	}
	if len(client.sentPrompts()) != 1 {
		t.Error("tool action should have been attempted")
	}
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.panicRun = true
	d, _ := newTestDispatcher(t, client)

	hook := HookDefinition{Event: EventSessionIdle, Actions: []Action{
		CommandAction{Name: "a"},
		ToolAction{Name: "after", Args: map[string]any{}},
	}}
	d.Run(context.Background(), hook, Invocation{SessionID: "s1"})

	if len(client.sentPrompts()) != 1 {
		t.Error("action after a panic should still run")
	}
}

func TestDispatcher_BlockStopsSequence(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	d, _ := newTestDispatcher(t, client)

	hook := HookDefinition{Event: ToolEvent(PhaseBefore, "write"), Actions: []Action{
		BashAction{Command: "echo 'no writes on Friday' >&2; exit 2"},
		CommandAction{Name: "never"},
	}}
	res := d.Run(context.Background(), hook, Invocation{SessionID: "s1", CanBlock: true})
	d.Wait()

	if !res.Blocked || res.Reason != "no writes on Friday" {
		t.Errorf("result = %+v", res)
	}
	if len(client.ranCommands()) != 0 {
		t.Error("actions after a block must not run")
	}
	notes := client.notifications()
	if len(notes) != 1 || !strings.HasPrefix(notes[0], "🚫") {
		t.Errorf("notifications = %q", notes)
	}
}

func TestDispatcher_NotifyFailureKeepsOutcome(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.notifyErr = errors.New("host down")
	d, _ := newTestDispatcher(t, client)

	blocking := HookDefinition{Event: ToolEvent(PhaseBefore, "write"), Actions: []Action{
		BashAction{Command: "echo no >&2; exit 2"},
		CommandAction{Name: "never"},
	}}
	res := d.Run(context.Background(), blocking, Invocation{SessionID: "s1", CanBlock: true})
	d.Wait()

	if !res.Blocked || res.Reason != "no" {
		t.Errorf("result = %+v, want blocked with reason %q", res, "no")
	}
	if len(client.ranCommands()) != 0 {
		t.Error("actions after a block must not run")
	}

	passing := HookDefinition{Event: EventSessionIdle, Actions: []Action{
		BashAction{Command: "true"},
		BashAction{Command: "exit 3"},
		CommandAction{Name: "last"},
	}}
	res = d.Run(context.Background(), passing, Invocation{SessionID: "s1", Event: EventSessionIdle})
	d.Wait()

	if res.Blocked {
		t.Errorf("result = %+v, want not blocked", res)
	}
	if ran := client.ranCommands(); len(ran) != 1 || ran[0].Name != "last" {
		t.Errorf("expected the final command to run, got %+v", ran)
	}
	if notes := client.notifications(); len(notes) != 3 {
		t.Errorf("expected 3 attempted notifications, got %d", len(notes))
	}
}

func TestDispatcher_BlockDefaultReason(t *testing.T) {
	t.Parallel()

	d, _ := newTestDispatcher(t, newFakeClient())
	hook := HookDefinition{Actions: []Action{BashAction{Command: "exit 2"}}}
	res := d.Run(context.Background(), hook, Invocation{SessionID: "s1", CanBlock: true})

	if !res.Blocked || res.Reason != defaultBlockReason {
		t.Errorf("result = %+v", res)
	}
}

func TestDispatcher_ExitTwoOutsideBeforePhase(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	d, _ := newTestDispatcher(t, client)

	hook := HookDefinition{Event: ToolEvent(PhaseAfter, "write"), Actions: []Action{
		BashAction{Command: "exit 2"},
		CommandAction{Name: "next"},
	}}
	res := d.Run(context.Background(), hook, Invocation{SessionID: "s1"})
	d.Wait()

	if res.Blocked {
		t.Error("exit 2 must not block outside the before phase")
	}
	if len(client.ranCommands()) != 1 {
		t.Error("sequence should continue after a non-blocking exit 2")
	}
	if notes := client.notifications(); len(notes) != 1 || !strings.HasPrefix(notes[0], "❌") {
		t.Errorf("notifications = %q", notes)
	}
}

func TestDispatcher_ConditionsGateActions(t *testing.T) {
	t.Parallel()

	client := newFakeClient(SessionInfo{ID: "child", ParentID: "main"})
	d, _ := newTestDispatcher(t, client)

	hook := HookDefinition{
		Event:      EventSessionIdle,
		Conditions: []Condition{ConditionMainSession},
		Actions:    []Action{CommandAction{Name: "x"}},
	}
	d.Run(context.Background(), hook, Invocation{SessionID: "child"})

	if len(client.ranCommands()) != 0 {
		t.Error("hook should be skipped for child sessions")
	}
}

func TestSuggestCommand(t *testing.T) {
	t.Parallel()

	cmds := []CommandInfo{{Name: "review"}, {Name: "commit"}}
	if got := suggestCommand("revw", cmds); got != "review" {
		t.Errorf("suggestCommand = %q", got)
	}
	if got := suggestCommand("x", nil); got != "" {
		t.Errorf("suggestCommand with no commands = %q", got)
	}
}
