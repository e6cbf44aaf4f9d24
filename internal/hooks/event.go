// ABOUTME: Event id grammar: fixed session events plus tool.{before|after}.{*|tool}
// ABOUTME: Bare tool.before / tool.after without a tool segment are rejected

package hooks

import "strings"

const toolEventPrefix = "tool."

// ParseEvent validates s against the event grammar.
func ParseEvent(s string) (EventID, bool) {
	switch EventID(s) {
	case EventSessionIdle, EventSessionCreated, EventSessionDeleted:
		return EventID(s), true
	}

	if _, _, ok := splitToolEvent(s); ok {
		return EventID(s), true
	}
	return "", false
}

// ToolPhase returns the phase and tool segment of a tool event.
// ok is false for session events.
func (e EventID) ToolPhase() (phase Phase, tool string, ok bool) {
	return splitToolEvent(string(e))
}

func splitToolEvent(s string) (Phase, string, bool) {
	rest, found := strings.CutPrefix(s, toolEventPrefix)
	if !found {
		return "", "", false
	}
	phase, tool, found := strings.Cut(rest, ".")
	if !found || tool == "" || strings.ContainsAny(tool, " \t\r\n") {
		return "", "", false
	}
	switch Phase(phase) {
	case PhaseBefore, PhaseAfter:
		return Phase(phase), tool, true
	default:
		return "", "", false
	}
}
