// ABOUTME: Narrow host interface the engine calls: session lookup, commands, prompts
// ABOUTME: Keeps the engine testable without the interactive session runtime

package hooks

import "context"

// CommandInfo describes a command the host can run, with the agent and
// model it is bound to (either may be empty).
type CommandInfo struct {
	Name        string
	Description string
	Agent       string
	Model       string
}

// CommandRequest is a resolved command invocation.
type CommandRequest struct {
	Name  string
	Args  string
	Agent string
	Model string
}

// SessionClient is the host runtime as seen by the engine.
type SessionClient interface {
	// Session returns metadata for a session id.
	Session(ctx context.Context, id string) (SessionInfo, error)
	// Commands enumerates the commands the host knows about.
	Commands(ctx context.Context) ([]CommandInfo, error)
	// RunCommand invokes a named command against a session.
	RunCommand(ctx context.Context, sessionID string, req CommandRequest) error
	// Prompt sends a prompt the session will answer.
	Prompt(ctx context.Context, sessionID, text string) error
	// Notify posts a message into the session without requesting a reply.
	Notify(ctx context.Context, sessionID, text string) error
}
