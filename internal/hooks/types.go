// ABOUTME: Hook data model: event ids, gating conditions, the closed action sum type
// ABOUTME: Defines the contract between the loader, the dispatcher, and the router

// Package hooks runs declaratively configured actions on session lifecycle
// and tool events. Definitions are loaded from layered frontmatter documents,
// gated by conditions, and dispatched in declaration order; before-phase
// bash actions can veto the tool call that triggered them.
package hooks

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventID identifies a lifecycle event a hook can be registered for.
type EventID string

const (
	EventSessionIdle    EventID = "session.idle"
	EventSessionCreated EventID = "session.created"
	EventSessionDeleted EventID = "session.deleted"
)

// Phase is the position of a tool event relative to tool execution.
type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseAfter  Phase = "after"
)

// Wildcard is the tool segment that matches every tool in a phase.
const Wildcard = "*"

// ToolEvent builds the event id for a tool phase, e.g. tool.before.write.
func ToolEvent(phase Phase, tool string) EventID {
	return EventID("tool." + string(phase) + "." + tool)
}

// Condition gates a hook. All conditions of a hook must pass.
type Condition string

const (
	// ConditionMainSession passes when the session has no parent.
	ConditionMainSession Condition = "isMainSession"
	// ConditionCodeChange passes when a touched file is source code.
	ConditionCodeChange Condition = "hasCodeChange"
)

// Action is one effect of a hook. The set of implementations is closed:
// CommandAction, ToolAction, and BashAction.
type Action interface {
	fmt.Stringer
	isAction()
}

// CommandAction runs a named command against the session.
type CommandAction struct {
	Name string
	Args string
}

// ToolAction asks the session, in natural language, to call a tool.
type ToolAction struct {
	Name string
	Args map[string]any
}

// BashAction runs a shell command. A zero Timeout means the executor default.
type BashAction struct {
	Command string
	Timeout time.Duration
}

func (CommandAction) isAction() {}
func (ToolAction) isAction()    {}
func (BashAction) isAction()    {}

func (a CommandAction) String() string {
	if a.Args == "" {
		return "command " + a.Name
	}
	return "command " + a.Name + " " + a.Args
}

func (a ToolAction) String() string {
	args, _ := json.Marshal(a.Args)
	return "tool " + a.Name + " " + string(args)
}

func (a BashAction) String() string {
	return "bash " + a.Command
}

// HookDefinition is one configured hook. Conditions is nil when the source
// declared none; a non-nil empty slice means an explicit empty gate.
type HookDefinition struct {
	Event      EventID
	Conditions []Condition
	Actions    []Action
	Source     string
}

// EventHookMap holds the ordered hook definitions for every event.
// It is built once at startup and treated as read-only afterwards.
type EventHookMap map[EventID][]HookDefinition

// Count returns the total number of definitions across all events.
func (m EventHookMap) Count() int {
	n := 0
	for _, defs := range m {
		n += len(defs)
	}
	return n
}

// SessionInfo is the session metadata the host exposes.
type SessionInfo struct {
	ID        string
	ParentID  string
	Title     string
	Directory string
}

// IsMain reports whether the session has no parent session.
func (s SessionInfo) IsMain() bool {
	return s.ParentID == ""
}

// ToolCall describes one tool invocation seen by the router.
type ToolCall struct {
	SessionID string
	CallID    string
	Tool      string
	Args      map[string]any
}
