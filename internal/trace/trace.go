// Package trace records entries to Invert so tests can confirm that
// no user-function identifier ever appears twice on the active call
// stack at once. Because the inverter never recurses into a
// function's own body — cross-function information is flattened into
// registry lookups — this harness should always observe a stack depth
// of at most one user-function frame; it exists to make that
// guarantee checkable rather than merely asserted.
package trace

import "github.com/google/uuid"

// Session identifies one top-level Invert call (invert.Invert starts
// a fresh Session each time it is called). Distinct Sessions never
// share stack state, so compilations running in parallel threads, each
// with its own registry instance, never see each other's frames.
type Session struct {
	id    uuid.UUID
	stack []string
	calls []Entry
}

// Entry records one push/pop of a user-function identifier onto the
// inversion stack.
type Entry struct {
	FuncKey string
	Depth   int
}

// NewSession creates a fresh tracing session with a random identity.
func NewSession() *Session {
	return &Session{id: uuid.New()}
}

// ID returns the session's UUID, useful for correlating trace output
// across goroutines in a multi-compilation test.
func (s *Session) ID() uuid.UUID { return s.id }

// Enter pushes funcKey onto the stack and records the call. It
// returns a function the caller must invoke on return, which pops
// funcKey off the stack again.
func (s *Session) Enter(funcKey string) (onLeave func()) {
	s.stack = append(s.stack, funcKey)
	s.calls = append(s.calls, Entry{FuncKey: funcKey, Depth: len(s.stack)})
	return func() {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// NoSelfCallOnStack reports whether no user-function identifier
// currently appears more than once in the active stack.
func (s *Session) NoSelfCallOnStack() bool {
	seen := make(map[string]bool, len(s.stack))
	for _, f := range s.stack {
		if seen[f] {
			return false
		}
		seen[f] = true
	}
	return true
}

// Calls returns all recorded Entry values for this session, in
// chronological order, for test assertions.
func (s *Session) Calls() []Entry {
	return append([]Entry(nil), s.calls...)
}
