// Package selection defines the selection state value object shared by the
// map and list views. The state machine transitions live in
// usecase/selection; this package only models the state itself.
package selection

// Phase is the selection lifecycle phase.
type Phase string

const (
	// PhaseIdle means no listing is selected.
	PhaseIdle Phase = "idle"
	// PhaseFocused means a listing's marker and popup are active.
	PhaseFocused Phase = "focused"
	// PhaseDetailOpen means the detail view for the focused listing is open.
	PhaseDetailOpen Phase = "detail_open"
)

// State is an immutable selection snapshot. Outside PhaseIdle, ListingID
// always refers to a member of the current filtered order and OrderIndex is
// its position within that order.
type State struct {
	phase      Phase
	listingID  string
	orderIndex int
}

// Idle returns the empty selection state.
func Idle() State {
	return State{phase: PhaseIdle, orderIndex: -1}
}

// Focused returns a focused selection state.
func Focused(listingID string, orderIndex int) State {
	return State{phase: PhaseFocused, listingID: listingID, orderIndex: orderIndex}
}

// DetailOpen returns a detail-open selection state.
func DetailOpen(listingID string, orderIndex int) State {
	return State{phase: PhaseDetailOpen, listingID: listingID, orderIndex: orderIndex}
}

// Phase returns the lifecycle phase.
func (s State) Phase() Phase {
	if s.phase == "" {
		return PhaseIdle
	}
	return s.phase
}

// ListingID returns the selected listing id, or "" when idle.
func (s State) ListingID() string { return s.listingID }

// OrderIndex returns the position of the selected listing within the
// current filtered order, or -1 when idle.
func (s State) OrderIndex() int {
	if s.Phase() == PhaseIdle {
		return -1
	}
	return s.orderIndex
}

// IsIdle reports whether nothing is selected.
func (s State) IsIdle() bool { return s.Phase() == PhaseIdle }
