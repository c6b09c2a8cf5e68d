// Package selection implements the state machine governing which listing is
// focused across the map and list views.
package selection

import (
	"go.uber.org/zap"

	domsel "github.com/localpros/discovery/internal/domain/selection"
	"github.com/localpros/discovery/internal/domain/listing"
)

// Controller mediates selection transitions. It is the single source of
// truth for which item is "open": the map and the list can never disagree.
type Controller struct {
	order   OrderSource
	present Presenter
	cb      Callbacks
	log     *zap.Logger

	state domsel.State
}

// New creates a selection controller in the Idle state.
func New(order OrderSource, present Presenter, cb Callbacks, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		order:   order,
		present: present,
		cb:      cb,
		log:     log,
		state:   domsel.Idle(),
	}
}

// State returns the current selection snapshot.
func (c *Controller) State() domsel.State { return c.state }

// Focus selects a listing by id (marker or list-row click). Focusing a
// listing outside the current filtered order is a no-op, preserving the
// invariant that a non-idle selection always refers to a visible listing.
func (c *Controller) Focus(id string) bool {
	order := c.order.Order()
	idx := indexOf(order, id)
	if idx < 0 {
		c.log.Debug("focus ignored, listing not in filtered order", zap.String("listing_id", id))
		return false
	}
	return c.focusAt(order, idx)
}

// OpenDetail transitions Focused → DetailOpen for the current listing.
func (c *Controller) OpenDetail() bool {
	if c.state.Phase() != domsel.PhaseFocused {
		return false
	}
	order := c.order.Order()
	idx := indexOf(order, c.state.ListingID())
	if idx < 0 {
		c.toIdle(false)
		return false
	}
	c.state = domsel.DetailOpen(order[idx].ID(), idx)
	if c.cb.DetailOpened != nil {
		c.cb.DetailOpened(order[idx])
	}
	return true
}

// CloseDetail transitions DetailOpen → Focused: the detail overlay goes
// away and the same marker's popup is restored, recentered on the map.
func (c *Controller) CloseDetail() bool {
	if c.state.Phase() != domsel.PhaseDetailOpen {
		return false
	}
	if c.cb.DetailClosed != nil {
		c.cb.DetailClosed()
	}
	order := c.order.Order()
	idx := indexOf(order, c.state.ListingID())
	if idx < 0 {
		c.toIdle(true)
		return false
	}
	c.state = domsel.Focused(order[idx].ID(), idx)
	c.present.Focus(order[idx], idx > 0, idx < len(order)-1)
	return true
}

// Next focuses the listing after the current one in the filtered order.
// The index is recomputed against the live order at call time. At the last
// index this is a no-op.
func (c *Controller) Next() bool { return c.step(1) }

// Prev focuses the listing before the current one. At index 0 it is a no-op.
func (c *Controller) Prev() bool { return c.step(-1) }

func (c *Controller) step(delta int) bool {
	if c.state.IsIdle() {
		return false
	}
	order := c.order.Order()
	idx := indexOf(order, c.state.ListingID())
	if idx < 0 {
		c.toIdle(c.state.Phase() == domsel.PhaseDetailOpen)
		return false
	}
	target := idx + delta
	if target < 0 || target >= len(order) {
		return false
	}
	return c.focusAt(order, target)
}

// Revalidate reconciles the selection with the current filtered order after
// a filter change: when the selected listing is no longer present the state
// drops to Idle, otherwise only the order index is recomputed (the popup and
// camera are left alone to avoid viewport jumps on every keystroke).
func (c *Controller) Revalidate() {
	if c.state.IsIdle() {
		return
	}
	order := c.order.Order()
	idx := indexOf(order, c.state.ListingID())
	if idx < 0 {
		c.toIdle(c.state.Phase() == domsel.PhaseDetailOpen)
		return
	}
	switch c.state.Phase() {
	case domsel.PhaseFocused:
		c.state = domsel.Focused(c.state.ListingID(), idx)
	case domsel.PhaseDetailOpen:
		c.state = domsel.DetailOpen(c.state.ListingID(), idx)
	}
}

// Reset drops any state to Idle (host view unmount or explicit close).
func (c *Controller) Reset() {
	if c.state.IsIdle() {
		return
	}
	c.toIdle(c.state.Phase() == domsel.PhaseDetailOpen)
}

func (c *Controller) focusAt(order []listing.Listing, idx int) bool {
	l := order[idx]
	if c.state.Phase() == domsel.PhaseDetailOpen && c.cb.DetailClosed != nil {
		c.cb.DetailClosed()
	}
	changed := c.state.ListingID() != l.ID() || c.state.IsIdle()
	c.present.Focus(l, idx > 0, idx < len(order)-1)
	c.state = domsel.Focused(l.ID(), idx)
	if changed && c.cb.SelectionChanged != nil {
		c.cb.SelectionChanged(l.ID())
	}
	return true
}

func (c *Controller) toIdle(detailWasOpen bool) {
	c.present.Blur()
	c.state = domsel.Idle()
	if detailWasOpen && c.cb.DetailClosed != nil {
		c.cb.DetailClosed()
	}
	if c.cb.SelectionChanged != nil {
		c.cb.SelectionChanged("")
	}
}

func indexOf(order []listing.Listing, id string) int {
	for i, l := range order {
		if l.ID() == id {
			return i
		}
	}
	return -1
}
