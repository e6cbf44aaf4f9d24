// ABOUTME: Event router: maps host lifecycle callbacks onto hook groups and session state
// ABOUTME: Stages tool args between phases, records modified files, enforces tool blocking

package hooks

import (
	"context"
	"maps"
	"sync"

	"github.com/mauromedda/pi-hooks/internal/log"
	"github.com/mauromedda/pi-hooks/internal/session"
)

// BlockedError is returned by ToolBefore when a hook vetoed the tool call.
// Its message is the reason the hook gave.
type BlockedError struct {
	Tool   string
	Event  EventID
	Reason string
}

func (e *BlockedError) Error() string {
	return e.Reason
}

// Router receives host events and runs the matching hooks.
type Router struct {
	hooks      EventHookMap
	store      *session.Store
	dispatcher *Dispatcher
	cwd        string

	mu    sync.Mutex
	stats map[EventID]int
}

// NewRouter creates a router over a merged hook map. cwd is reported to
// bash actions as the working directory of every event.
func NewRouter(hooks EventHookMap, store *session.Store, dispatcher *Dispatcher, cwd string) *Router {
	if hooks == nil {
		hooks = EventHookMap{}
	}
	return &Router{
		hooks:      hooks,
		store:      store,
		dispatcher: dispatcher,
		cwd:        cwd,
		stats:      make(map[EventID]int),
	}
}

// SessionCreated opens state for a main session and runs session.created
// hooks. Child sessions are ignored.
func (r *Router) SessionCreated(ctx context.Context, info SessionInfo) {
	if !info.IsMain() {
		log.Debug("hooks: ignoring child session %s (parent %s)", info.ID, info.ParentID)
		return
	}
	r.store.Open(info.ID)
	r.fire(ctx, Invocation{
		SessionID: info.ID,
		Event:     EventSessionCreated,
		CWD:       r.cwd,
	}, EventSessionCreated)
}

// SessionDeleted runs session.deleted hooks, then forgets the session.
func (r *Router) SessionDeleted(ctx context.Context, sessionID string) {
	r.fire(ctx, Invocation{
		SessionID: sessionID,
		Event:     EventSessionDeleted,
		CWD:       r.cwd,
	}, EventSessionDeleted)
	r.store.Forget(sessionID)
}

// SessionIdle runs session.idle hooks with the files modified since the
// previous idle event. The file set is only consumed when hooks exist.
func (r *Router) SessionIdle(ctx context.Context, sessionID string) {
	if len(r.hooks[EventSessionIdle]) == 0 {
		return
	}
	files := r.store.TakeFiles(sessionID)
	r.fire(ctx, Invocation{
		SessionID: sessionID,
		Event:     EventSessionIdle,
		CWD:       r.cwd,
		Files:     files,
	}, EventSessionIdle)
}

// ToolBefore stages the call's arguments and runs tool.before.* hooks, then
// tool.before.<tool> hooks. A blocking hook aborts the call: the remaining
// hooks are skipped, the staged arguments are discarded, and a
// *BlockedError is returned. Otherwise write and edit calls record their
// target file for the next idle event.
func (r *Router) ToolBefore(ctx context.Context, call ToolCall) error {
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	r.store.Stage(call.SessionID, call.CallID, args)

	inv := Invocation{
		SessionID: call.SessionID,
		Event:     ToolEvent(PhaseBefore, call.Tool),
		CWD:       r.cwd,
		ToolName:  call.Tool,
		ToolArgs:  args,
		CanBlock:  true,
	}
	if res := r.fire(ctx, inv, r.toolGroups(PhaseBefore, call.Tool)...); res.Blocked {
		r.store.TakeArgs(call.CallID)
		return &BlockedError{Tool: call.Tool, Event: inv.Event, Reason: res.Reason}
	}

	if session.IsWriteTool(call.Tool) {
		if path := session.FilePathArg(args); path != "" {
			r.store.RecordFile(call.SessionID, path)
		}
	}
	return nil
}

// ToolAfter consumes the arguments staged by ToolBefore and runs
// tool.after.* hooks, then tool.after.<tool> hooks. Missing staged
// arguments default to an empty object.
func (r *Router) ToolAfter(ctx context.Context, call ToolCall) {
	args, ok := r.store.TakeArgs(call.CallID)
	if !ok {
		log.Debug("hooks: no staged args for call %s (%s)", call.CallID, call.Tool)
	}
	r.fire(ctx, Invocation{
		SessionID: call.SessionID,
		Event:     ToolEvent(PhaseAfter, call.Tool),
		CWD:       r.cwd,
		ToolName:  call.Tool,
		ToolArgs:  args,
	}, r.toolGroups(PhaseAfter, call.Tool)...)
}

// Stats returns how many hook definitions were dispatched per event.
func (r *Router) Stats() map[EventID]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.stats)
}

// Wait blocks until pending session notifications settle. It must not be
// called while other goroutines are still delivering events.
func (r *Router) Wait() {
	r.dispatcher.Wait()
}

// toolGroups lists the hook groups of a tool phase: wildcard first.
func (r *Router) toolGroups(phase Phase, tool string) []EventID {
	wildcard := ToolEvent(phase, Wildcard)
	if tool == Wildcard {
		return []EventID{wildcard}
	}
	return []EventID{wildcard, ToolEvent(phase, tool)}
}

// fire runs the hooks of each group in order and stops at the first block.
func (r *Router) fire(ctx context.Context, inv Invocation, groups ...EventID) Result {
	for _, group := range groups {
		for _, def := range r.hooks[group] {
			r.count(group)
			if res := r.dispatcher.Run(ctx, def, inv); res.Blocked {
				return res
			}
		}
	}
	return Result{}
}

func (r *Router) count(event EventID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[event]++
}
