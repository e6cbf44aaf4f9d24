// ABOUTME: Condition evaluator: isMainSession via the host, hasCodeChange via extensions
// ABOUTME: Conditions are AND-combined and short-circuit on the first failure

package hooks

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mauromedda/pi-hooks/internal/log"
)

// codeExtensions is the static set of extensions counted as code changes.
var codeExtensions = map[string]struct{}{
	// JavaScript / TypeScript
	".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {}, ".ts": {}, ".tsx": {}, ".mts": {}, ".cts": {},
	".vue": {}, ".svelte": {}, ".astro": {},
	// Systems and compiled languages
	".go": {}, ".rs": {}, ".c": {}, ".h": {}, ".cc": {}, ".cpp": {}, ".cxx": {}, ".hpp": {}, ".hh": {},
	".m": {}, ".mm": {}, ".zig": {}, ".swift": {}, ".java": {}, ".kt": {}, ".kts": {}, ".scala": {},
	".cs": {}, ".fs": {}, ".dart": {},
	// Scripting languages
	".py": {}, ".rb": {}, ".php": {}, ".pl": {}, ".lua": {}, ".r": {}, ".jl": {},
	".ex": {}, ".exs": {}, ".erl": {}, ".hs": {}, ".ml": {}, ".clj": {}, ".elm": {},
	".sol": {}, ".sql": {},
	// Shell
	".sh": {}, ".bash": {}, ".zsh": {}, ".fish": {}, ".ps1": {},
	// Styles and markup that build
	".css": {}, ".scss": {}, ".sass": {}, ".less": {}, ".html": {},
	// Structured config
	".json": {}, ".jsonc": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".xml": {},
	".graphql": {}, ".proto": {}, ".tf": {},
}

// IsCodeFile reports whether path has a recognized code extension.
// Extensions compare case-insensitively.
func IsCodeFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	_, ok := codeExtensions[ext]
	return ok
}

// Evaluator decides whether a hook's conditions hold for an invocation.
type Evaluator struct {
	client SessionClient
	isCode func(path string) bool
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithClassifier replaces the static code-extension table.
func WithClassifier(fn func(path string) bool) EvaluatorOption {
	return func(e *Evaluator) { e.isCode = fn }
}

// NewEvaluator creates an evaluator that resolves sessions through client.
func NewEvaluator(client SessionClient, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{client: client, isCode: IsCodeFile}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsMainSession reports whether the session has no parent. Lookup
// failures count as false.
func (e *Evaluator) IsMainSession(ctx context.Context, sessionID string) bool {
	info, err := e.client.Session(ctx, sessionID)
	if err != nil {
		log.Warn("hooks: session lookup %s: %v", sessionID, err)
		return false
	}
	return info.IsMain()
}

// HasCodeChange reports whether any path is a recognized code file.
func (e *Evaluator) HasCodeChange(files []string) bool {
	for _, f := range files {
		if e.isCode(f) {
			return true
		}
	}
	return false
}

// Allow evaluates all conditions of hook in order, stopping at the first
// that fails. Hooks without conditions always pass.
func (e *Evaluator) Allow(ctx context.Context, hook HookDefinition, inv Invocation) bool {
	for _, c := range hook.Conditions {
		var ok bool
		switch c {
		case ConditionMainSession:
			ok = e.IsMainSession(ctx, inv.SessionID)
		case ConditionCodeChange:
			ok = e.HasCodeChange(inv.touchedFiles())
		}
		if !ok {
			log.Debug("hooks: %s skipped for session %s: condition %s failed", hook.Event, inv.SessionID, c)
			return false
		}
	}
	return true
}
