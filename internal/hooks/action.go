// ABOUTME: Decodes loosely typed action maps into the closed Action sum type
// ABOUTME: Accepts shorthand and long forms; unknown or ambiguous variants are rejected

package hooks

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	keyCommand = "command"
	keyTool    = "tool"
	keyBash    = "bash"
)

// decodeAction accepts:
//
//	command: review            | command: {name: review, args: "--quick"}
//	tool: {name: bash, args: {command: ls}}
//	bash: "npm test"           | bash: {command: "npm test", timeout: 30000}
func decodeAction(raw any) (Action, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("action is not a mapping")
	}
	if len(m) != 1 {
		return nil, fmt.Errorf("action must have exactly one of %s, %s, %s", keyCommand, keyTool, keyBash)
	}

	for key, value := range m {
		switch key {
		case keyCommand:
			return decodeCommand(value)
		case keyTool:
			return decodeTool(value)
		case keyBash:
			return decodeBash(value)
		default:
			return nil, fmt.Errorf("unknown action %q", key)
		}
	}
	return nil, errors.New("empty action")
}

func decodeCommand(v any) (Action, error) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil, errors.New("command name is empty")
		}
		return CommandAction{Name: t}, nil
	case map[string]any:
		name, _ := t["name"].(string)
		if name == "" {
			return nil, errors.New("command name is required")
		}
		args, err := scalarString(t["args"])
		if err != nil {
			return nil, fmt.Errorf("command args: %w", err)
		}
		return CommandAction{Name: name, Args: args}, nil
	default:
		return nil, fmt.Errorf("command must be a string or mapping, got %T", v)
	}
}

func decodeTool(v any) (Action, error) {
	t, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tool must be a mapping, got %T", v)
	}
	name, _ := t["name"].(string)
	if name == "" {
		return nil, errors.New("tool name is required")
	}
	args := map[string]any{}
	if raw, present := t["args"]; present && raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("tool args must be a mapping, got %T", raw)
		}
		args = m
	}
	return ToolAction{Name: name, Args: args}, nil
}

func decodeBash(v any) (Action, error) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil, errors.New("bash command is empty")
		}
		return BashAction{Command: t}, nil
	case map[string]any:
		cmd, _ := t["command"].(string)
		if cmd == "" {
			return nil, errors.New("bash command is required")
		}
		timeout, err := millis(t["timeout"])
		if err != nil {
			return nil, fmt.Errorf("bash timeout: %w", err)
		}
		return BashAction{Command: cmd, Timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("bash must be a string or mapping, got %T", v)
	}
}

// scalarString renders a YAML scalar as the literal argument string.
func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("must be a scalar, got %T", v)
	}
}

// millis converts a YAML number of milliseconds into a duration.
func millis(v any) (time.Duration, error) {
	var ms float64
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		ms = float64(t)
	case int64:
		ms = float64(t)
	case uint64:
		ms = float64(t)
	case float64:
		ms = t
	default:
		return 0, fmt.Errorf("must be a number, got %T", v)
	}
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, fmt.Errorf("must be a non-negative number, got %v", v)
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}
