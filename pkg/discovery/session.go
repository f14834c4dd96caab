package discovery

import "sync"

// SessionState is the run state of a discovery session.
type SessionState int

const (
	StateIdle    SessionState = iota // Ready for a new run
	StateRunning                     // A run is in flight
)

// String returns the string representation of SessionState.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Session debounces overlapping discovery runs against one result
// slot. A host UI may fire discovery on every click; a request that
// arrives while a run is in flight is dropped, not queued. This is not
// a fairness or ordering guarantee and there is no cancellation: a run
// that starts always completes.
type Session struct {
	mu    sync.Mutex
	state SessionState
}

// TryRun executes fn unless a run is already in flight, in which case
// it reports false and fn is never called.
func (s *Session) TryRun(fn func()) bool {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return false
	}
	s.state = StateRunning
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
	}()

	fn()
	return true
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
