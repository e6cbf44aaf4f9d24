// ABOUTME: In-memory SessionClient used by dispatcher, condition, and router tests
// ABOUTME: Records every command, prompt, and notification it receives

package hooks

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var errNoSession = errors.New("session not found")

type fakeClient struct {
	mu       sync.Mutex
	sessions map[string]SessionInfo
	commands []CommandInfo

	runErr    error
	promptErr error
	notifyErr error
	panicRun  bool

	ran     []CommandRequest
	prompts []string
	notes   []string
}

func newFakeClient(sessions ...SessionInfo) *fakeClient {
	c := &fakeClient{sessions: make(map[string]SessionInfo)}
	for _, s := range sessions {
		c.sessions[s.ID] = s
	}
	return c
}

func (c *fakeClient) Session(_ context.Context, id string) (SessionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return SessionInfo{}, errNoSession
	}
	return s, nil
}

func (c *fakeClient) Commands(context.Context) ([]CommandInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.commands), nil
}

func (c *fakeClient) RunCommand(_ context.Context, _ string, req CommandRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.panicRun {
		panic("command exploded")
	}
	c.ran = append(c.ran, req)
	return c.runErr
}

func (c *fakeClient) Prompt(_ context.Context, _ string, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, text)
	return c.promptErr
}

func (c *fakeClient) Notify(_ context.Context, _ string, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, text)
	return c.notifyErr
}

func (c *fakeClient) ranCommands() []CommandRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.ran)
}

func (c *fakeClient) sentPrompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.prompts)
}

func (c *fakeClient) notifications() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.notes)
}
