package selection

import "testing"

func TestIdle(t *testing.T) {
	s := Idle()
	if s.Phase() != PhaseIdle || !s.IsIdle() {
		t.Errorf("unexpected phase: %v", s.Phase())
	}
	if s.ListingID() != "" {
		t.Errorf("idle state must carry no listing id, got %q", s.ListingID())
	}
	if s.OrderIndex() != -1 {
		t.Errorf("idle order index must be -1, got %d", s.OrderIndex())
	}
}

func TestZeroValueBehavesAsIdle(t *testing.T) {
	var s State
	if s.Phase() != PhaseIdle || s.OrderIndex() != -1 {
		t.Errorf("zero value must behave as idle: %v %d", s.Phase(), s.OrderIndex())
	}
}

func TestFocusedAndDetailOpen(t *testing.T) {
	s := Focused("p3", 2)
	if s.Phase() != PhaseFocused || s.ListingID() != "p3" || s.OrderIndex() != 2 {
		t.Errorf("unexpected focused state: %v %q %d", s.Phase(), s.ListingID(), s.OrderIndex())
	}
	d := DetailOpen("p3", 2)
	if d.Phase() != PhaseDetailOpen || d.IsIdle() {
		t.Errorf("unexpected detail state: %v", d.Phase())
	}
}
