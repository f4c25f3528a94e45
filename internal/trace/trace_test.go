package trace

import "testing"

func TestNoSelfCallOnStack(t *testing.T) {
	s := NewSession()
	leaveEdge := s.Enter("edge")
	if !s.NoSelfCallOnStack() {
		t.Fatal("single frame should never violate the no-self-call property")
	}
	leavePath := s.Enter("path")
	if !s.NoSelfCallOnStack() {
		t.Fatal("two distinct frames should not violate the property")
	}
	leaveEdge2 := s.Enter("edge")
	if s.NoSelfCallOnStack() {
		t.Fatal("expected re-entering edge while already on the stack to violate the property")
	}
	leaveEdge2()
	leavePath()
	leaveEdge()
	if len(s.Calls()) != 3 {
		t.Errorf("Calls() recorded %d entries, want 3", len(s.Calls()))
	}
}

func TestSessionIDIsStable(t *testing.T) {
	s := NewSession()
	if s.ID() != s.ID() {
		t.Error("expected ID() to be stable across calls")
	}
	other := NewSession()
	if s.ID() == other.ID() {
		t.Error("expected distinct sessions to have distinct IDs")
	}
}
