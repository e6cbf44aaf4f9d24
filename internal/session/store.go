// ABOUTME: SessionStore: per-session modified-file sets and per-call staged tool args
// ABOUTME: In-memory only; entries are dropped on session delete or when consumed

package session

import "sync"

// Store holds the engine's mutable per-session state. Sessions are keyed by
// session id and staged tool arguments by call id; the two key spaces never
// overlap. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	files   map[string]*fileSet
	pending map[string]stagedCall
}

// stagedCall is the argument map of one in-flight tool call and the
// session that owns it.
type stagedCall struct {
	sessionID string
	args      map[string]any
}

// fileSet is an insertion-ordered set of paths.
type fileSet struct {
	order []string
	seen  map[string]struct{}
}

func newFileSet() *fileSet {
	return &fileSet{seen: make(map[string]struct{})}
}

func (f *fileSet) add(p string) {
	if _, ok := f.seen[p]; ok {
		return
	}
	f.seen[p] = struct{}{}
	f.order = append(f.order, p)
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		files:   make(map[string]*fileSet),
		pending: make(map[string]stagedCall),
	}
}

// Open registers a session with an empty file set. Calling it for a known
// session is a no-op.
func (s *Store) Open(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[sessionID]; !ok {
		s.files[sessionID] = newFileSet()
	}
}

// RecordFile adds a modified path to the session's set.
func (s *Store) RecordFile(sessionID, path string) {
	if path == "" {
		return
	}
	p := NormalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.files[sessionID]
	if !ok {
		set = newFileSet()
		s.files[sessionID] = set
	}
	set.add(p)
}

// Files returns a copy of the session's modified paths without clearing them.
func (s *Store) Files(sessionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.files[sessionID]
	if !ok {
		return []string{}
	}
	return append([]string{}, set.order...)
}

// TakeFiles returns the session's modified paths in first-seen order and
// clears the set in the same critical section. The result is never nil.
func (s *Store) TakeFiles(sessionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.files[sessionID]
	if !ok {
		return []string{}
	}
	s.files[sessionID] = newFileSet()
	if set.order == nil {
		return []string{}
	}
	return set.order
}

// Forget drops every trace of the session, including arguments staged by
// its tool calls that never finished.
func (s *Store) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, sessionID)
	for callID, call := range s.pending {
		if call.sessionID == sessionID {
			delete(s.pending, callID)
		}
	}
}

// Stage keeps a tool call's arguments until the matching after event.
func (s *Store) Stage(sessionID, callID string, args map[string]any) {
	if args == nil {
		args = map[string]any{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[callID] = stagedCall{sessionID: sessionID, args: args}
}

// TakeArgs returns and removes the staged arguments of a call. ok is false
// when nothing was staged; args is then an empty map.
func (s *Store) TakeArgs(callID string) (args map[string]any, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call, ok := s.pending[callID]
	if !ok {
		return map[string]any{}, false
	}
	delete(s.pending, callID)
	return call.args, true
}

// Sessions returns how many sessions currently hold state.
func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// PendingCalls returns how many tool calls have staged arguments.
func (s *Store) PendingCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
