// ABOUTME: Loads one hook layer from <dir>/hooks.md into an ordered EventHookMap
// ABOUTME: Fails open: unreadable files and malformed entries are dropped, never fatal

package hooks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/log"
)

// Issue explains why one raw hook entry was dropped.
type Issue struct {
	Source string
	Index  int // position in the hooks list; -1 for document-level problems
	Event  string
	Reason string
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s: %s", i.Source, i.Reason)
	}
	if i.Event == "" {
		return fmt.Sprintf("%s: hooks[%d]: %s", i.Source, i.Index, i.Reason)
	}
	return fmt.Sprintf("%s: hooks[%d] (%s): %s", i.Source, i.Index, i.Event, i.Reason)
}

// LoadDir reads the hook document of one layer directory. A missing
// directory or file yields an empty map.
func LoadDir(dir string) EventHookMap {
	m, _ := LoadDirWithIssues(dir)
	return m
}

// LoadDirWithIssues is LoadDir plus the reasons entries were dropped.
func LoadDirWithIssues(dir string) (EventHookMap, []Issue) {
	path := config.HooksFile(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("hooks: reading %s: %v", path, err)
			return EventHookMap{}, []Issue{{Source: path, Index: -1, Reason: err.Error()}}
		}
		return EventHookMap{}, nil
	}
	return Parse(string(data), path)
}

// Parse decodes the hooks list embedded in a frontmatter document.
// source labels the definitions and issues (usually the file path).
func Parse(content, source string) (EventHookMap, []Issue) {
	out := EventHookMap{}
	doc := config.ParseDocument(content)

	rawHooks, present := doc.Data["hooks"]
	if !present {
		return out, nil
	}
	entries, ok := rawHooks.([]any)
	if !ok {
		return out, []Issue{{Source: source, Index: -1, Reason: "hooks is not a list"}}
	}

	var issues []Issue
	for i, entry := range entries {
		def, err := decodeDefinition(entry)
		if err != nil {
			issue := Issue{Source: source, Index: i, Event: string(def.Event), Reason: err.Error()}
			log.Debug("hooks: dropping %s", issue)
			issues = append(issues, issue)
			continue
		}
		def.Source = source
		out[def.Event] = append(out[def.Event], def)
	}
	return out, issues
}

// decodeDefinition converts one raw entry. On error the returned definition
// carries at most the event id, for diagnostics.
func decodeDefinition(entry any) (HookDefinition, error) {
	m, ok := entry.(map[string]any)
	if !ok {
		return HookDefinition{}, errors.New("entry is not a mapping")
	}

	rawEvent, ok := m["event"].(string)
	if !ok {
		return HookDefinition{}, errors.New("missing event")
	}
	event, ok := ParseEvent(rawEvent)
	if !ok {
		return HookDefinition{Event: EventID(rawEvent)}, fmt.Errorf("invalid event %q", rawEvent)
	}
	def := HookDefinition{Event: event}

	rawActions, ok := m["actions"].([]any)
	if !ok {
		return def, errors.New("actions missing or not a list")
	}

	conditions, err := decodeConditions(m["conditions"])
	if err != nil {
		return def, err
	}

	actions := make([]Action, 0, len(rawActions))
	for i, raw := range rawActions {
		a, err := decodeAction(raw)
		if err != nil {
			return def, fmt.Errorf("actions[%d]: %w", i, err)
		}
		actions = append(actions, a)
	}

	def.Conditions = conditions
	def.Actions = actions
	return def, nil
}

// decodeConditions returns nil when the key is absent or null, so that
// "no gating" stays distinguishable from an explicit empty list.
func decodeConditions(raw any) ([]Condition, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.New("conditions is not a list")
	}
	out := make([]Condition, 0, len(list))
	for _, item := range list {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("condition %v is not a string", item)
		}
		switch c := Condition(name); c {
		case ConditionMainSession, ConditionCodeChange:
			out = append(out, c)
		default:
			return nil, fmt.Errorf("unknown condition %q", name)
		}
	}
	return out, nil
}
