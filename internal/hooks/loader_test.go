// ABOUTME: Tests for hook document parsing and layer loading from disk
// ABOUTME: Verifies declaration order, fail-open dropping, and condition presence

package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/mauromedda/pi-hooks/internal/config"
)

var sampleHooks = heredoc.Doc(`
	---
	hooks:
	  - event: session.idle
	    conditions: [hasCodeChange]
	    actions:
	      - bash: "echo one"
	      - command: review
	  - event: tool.before
	    actions:
	      - bash: "echo never"
	  - event: tool.before.write
	    actions:
	      - bash: {command: "exit 2", timeout: 1500}
	      - tool: {name: read, args: {filePath: a.go}}
	  - event: session.idle
	    conditions: []
	    actions:
	      - command: {name: fmt, args: 3}
	---
	Notes for humans.
`)

func TestParse_PreservesOrderAndDropsInvalid(t *testing.T) {
	t.Parallel()

	m, issues := Parse(sampleHooks, "hooks.md")

	if m.Count() != 3 {
		t.Fatalf("expected 3 definitions, got %d", m.Count())
	}

	idle := m[EventSessionIdle]
	if len(idle) != 2 {
		t.Fatalf("expected 2 idle hooks, got %d", len(idle))
	}
	if got := idle[0].Actions[0]; got != (BashAction{Command: "echo one"}) {
		t.Errorf("idle[0].Actions[0] = %#v", got)
	}
	if got := idle[0].Actions[1]; got != (CommandAction{Name: "review"}) {
		t.Errorf("idle[0].Actions[1] = %#v", got)
	}
	if got := idle[1].Actions[0]; got != (CommandAction{Name: "fmt", Args: "3"}) {
		t.Errorf("idle[1].Actions[0] = %#v", got)
	}
	if idle[0].Source != "hooks.md" {
		t.Errorf("Source = %q", idle[0].Source)
	}

	write := m[ToolEvent(PhaseBefore, "write")]
	if len(write) != 1 || len(write[0].Actions) != 2 {
		t.Fatalf("unexpected tool.before.write hooks: %+v", write)
	}
	if got := write[0].Actions[0]; got != (BashAction{Command: "exit 2", Timeout: 1500 * time.Millisecond}) {
		t.Errorf("write action = %#v", got)
	}

	if _, ok := m["tool.before"]; ok {
		t.Error("bare tool.before must not be registered")
	}
	if len(issues) != 1 || issues[0].Index != 1 || issues[0].Event != "tool.before" {
		t.Errorf("unexpected issues: %v", issues)
	}
}

func TestParse_ConditionPresence(t *testing.T) {
	t.Parallel()

	m, _ := Parse(sampleHooks, "hooks.md")
	idle := m[EventSessionIdle]

	if len(idle[0].Conditions) != 1 || idle[0].Conditions[0] != ConditionCodeChange {
		t.Errorf("idle[0].Conditions = %v", idle[0].Conditions)
	}
	if idle[1].Conditions == nil || len(idle[1].Conditions) != 0 {
		t.Errorf("explicit empty conditions should be non-nil and empty, got %#v", idle[1].Conditions)
	}
	if c := m[ToolEvent(PhaseBefore, "write")][0].Conditions; c != nil {
		t.Errorf("absent conditions should be nil, got %#v", c)
	}
}

func TestParse_DropsWholeDefinitionOnBadEntry(t *testing.T) {
	t.Parallel()

	content := heredoc.Doc(`
		---
		hooks:
		  - event: session.idle
		    conditions: [isWeekend]
		    actions: [{bash: ls}]
		  - event: session.idle
		    actions:
		      - bash: ls
		      - script: ls
		  - event: session.idle
		  - "just a string"
		  - event: session.created
		    actions: [{bash: ls}]
		---
	`)

	m, issues := Parse(content, "x")
	if m.Count() != 1 || len(m[EventSessionCreated]) != 1 {
		t.Errorf("expected only the session.created hook, got %+v", m)
	}
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %v", issues)
	}
	if !strings.Contains(issues[0].Reason, "isWeekend") {
		t.Errorf("issue[0] = %s", issues[0])
	}
}

func TestParse_NoHooks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		issues  int
	}{
		{"no frontmatter", "# just markdown", 0},
		{"unterminated", "---\nhooks: []\n", 0},
		{"invalid yaml", "---\nhooks: [\n---\n", 0},
		{"no hooks key", "---\ntitle: x\n---\n", 0},
		{"hooks not a list", "---\nhooks: nope\n---\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, issues := Parse(tt.content, "x")
			if m == nil || m.Count() != 0 {
				t.Errorf("expected an empty map, got %+v", m)
			}
			if len(issues) != tt.issues {
				t.Errorf("expected %d issues, got %v", tt.issues, issues)
			}
		})
	}
}

func TestIssueString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		issue Issue
		want  string
	}{
		{Issue{Source: "f", Index: -1, Reason: "r"}, "f: r"},
		{Issue{Source: "f", Index: 2, Reason: "r"}, "f: hooks[2]: r"},
		{Issue{Source: "f", Index: 2, Event: "e", Reason: "r"}, "f: hooks[2] (e): r"},
	}
	for _, tt := range tests {
		if got := tt.issue.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(config.HooksFile(dir), []byte(sampleHooks), 0o644); err != nil {
		t.Fatal(err)
	}

	m := LoadDir(dir)
	if m.Count() != 3 {
		t.Errorf("expected 3 definitions, got %d", m.Count())
	}
	if src := m[EventSessionIdle][0].Source; src != filepath.Join(dir, config.HooksFileName) {
		t.Errorf("Source = %q", src)
	}
}

func TestLoadDir_Missing(t *testing.T) {
	t.Parallel()

	m, issues := LoadDirWithIssues(filepath.Join(t.TempDir(), "nope"))
	if m == nil || m.Count() != 0 || issues != nil {
		t.Errorf("missing dir should load empty, got %+v %v", m, issues)
	}
}
