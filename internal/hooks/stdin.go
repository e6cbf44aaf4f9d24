// ABOUTME: BashContext: the JSON document written to a bash action's stdin
// ABOUTME: Hand-written easyjson encoder so optional keys appear only when meaningful

package hooks

import (
	"encoding/json"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

// BashContext is the stdin payload of a bash action:
//
//	{"session_id", "event", "cwd", "files"?, "tool_name"?, "tool_args"?}
//
// files is emitted whenever Files is non-nil (session.idle). tool_name and
// tool_args are emitted whenever ToolName is set (tool events); tool_args is
// always an object there.
type BashContext struct {
	SessionID string
	Event     EventID
	CWD       string
	Files     []string
	ToolName  string
	ToolArgs  map[string]any
}

var (
	_ easyjson.Marshaler = BashContext{}
	_ json.Marshaler     = BashContext{}
)

// MarshalEasyJSON implements easyjson.Marshaler.
func (c BashContext) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"session_id":`)
	w.String(c.SessionID)
	w.RawString(`,"event":`)
	w.String(string(c.Event))
	w.RawString(`,"cwd":`)
	w.String(c.CWD)

	if c.Files != nil {
		w.RawString(`,"files":[`)
		for i, f := range c.Files {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(f)
		}
		w.RawByte(']')
	}

	if c.ToolName != "" {
		w.RawString(`,"tool_name":`)
		w.String(c.ToolName)
		w.RawString(`,"tool_args":`)
		args := c.ToolArgs
		if args == nil {
			args = map[string]any{}
		}
		w.Raw(json.Marshal(args))
	}

	w.RawByte('}')
}

// MarshalJSON implements json.Marshaler.
func (c BashContext) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(c)
}

// encodeStdin serializes c. Tool args that cannot be encoded are replaced
// by an empty object rather than dropping the whole payload.
func encodeStdin(c BashContext) []byte {
	data, err := easyjson.Marshal(c)
	if err == nil {
		return data
	}
	c.ToolArgs = map[string]any{}
	data, err = easyjson.Marshal(c)
	if err != nil {
		return []byte("{}")
	}
	return data
}
