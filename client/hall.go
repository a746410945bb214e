package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/my-order-link/restaurant-app/notify"
)

// HallScreen combines the polled hall view with live events: a checkout
// performed at the register flags the table for clearing here immediately,
// without waiting for the next poll, and a shutdown broadcast forces logout.
type HallScreen struct {
	client *Client
	sync   *Synchronizer

	// OnShutdown runs after the credential is cleared on a shutdown
	// broadcast. Typically it navigates back to the login screen.
	OnShutdown func()

	mu           sync.Mutex
	view         HallSnapshot
	clearPending map[uint]time.Time
}

func NewHallScreen(c *Client) *HallScreen {
	h := &HallScreen{
		client:       c,
		clearPending: make(map[uint]time.Time),
	}
	h.sync = NewSynchronizer(StaffPollInterval, h.fetch, h.render)
	return h
}

// Run polls the backend and consumes events until ctx is cancelled.
func (h *HallScreen) Run(ctx context.Context, events <-chan notify.Event) {
	go h.sync.Run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.HandleEvent(ev)
		}
	}
}

func (h *HallScreen) fetch(ctx context.Context) (Snapshot, error) {
	orders, err := h.client.FetchActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	calls, err := h.client.FetchCalls(ctx)
	if err != nil {
		return nil, err
	}
	return BuildHallSnapshot(orders, calls), nil
}

func (h *HallScreen) render(snap Snapshot, added, removed []string) {
	hall, ok := snap.(HallSnapshot)
	if !ok {
		return
	}
	h.mu.Lock()
	h.view = hall
	h.mu.Unlock()
}

// HandleEvent reacts to one broadcast from the staff event channel.
func (h *HallScreen) HandleEvent(ev notify.Event) {
	switch ev.Kind {
	case notify.EventTableCheckedOut:
		if ev.Data == nil {
			return
		}
		h.mu.Lock()
		h.clearPending[ev.Data.TableID] = ev.Data.Timestamp
		h.dropTableLocked(ev.Data.TableID)
		h.mu.Unlock()
	case notify.EventSystemShutdown:
		h.client.ClearToken()
		if h.OnShutdown != nil {
			h.OnShutdown()
		}
	}
}

// dropTableLocked removes the checked-out table's call card and served group
// from the cached view so the hall reflects the checkout at once.
func (h *HallScreen) dropTableLocked(tableID uint) {
	calls := h.view.Calls[:0]
	for _, call := range h.view.Calls {
		if call.TableID != tableID {
			calls = append(calls, call)
		}
	}
	h.view.Calls = calls

	served := h.view.Served[:0]
	for _, group := range h.view.Served {
		if group.TableID != tableID {
			served = append(served, group)
		}
	}
	h.view.Served = served
}

// View returns the hall snapshot currently on screen.
func (h *HallScreen) View() HallSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view
}

// PendingClear lists tables checked out at the register and not yet wiped
// down, oldest checkout first.
func (h *HallScreen) PendingClear() []uint {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]uint, 0, len(h.clearPending))
	for tableID := range h.clearPending {
		out = append(out, tableID)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := h.clearPending[out[i]], h.clearPending[out[j]]
		if a.Equal(b) {
			return out[i] < out[j]
		}
		return a.Before(b)
	})
	return out
}

// ConfirmClear acknowledges that a checked-out table has been wiped down.
func (h *HallScreen) ConfirmClear(tableID uint) {
	h.mu.Lock()
	delete(h.clearPending, tableID)
	h.mu.Unlock()
}
