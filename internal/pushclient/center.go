package pushclient

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// defaultPollInterval is the upper bound on staleness after a failed
	// optimistic mutation: the next poll is the correction mechanism.
	defaultPollInterval = 30 * time.Second

	// displayCap bounds how many items Items returns. The unread count is
	// independent of it and always reflects the full backlog.
	displayCap = 50
)

// Center is the in-app notification center: a polled, eventually-consistent
// cache of the user's backlog. Mutations apply optimistically and are never
// rolled back: a failed call just means the local view is wrong until the
// next scheduled refresh reconciles it against server truth.
type Center struct {
	api      *API
	interval time.Duration

	mu      sync.Mutex
	items   []Item
	unread  int
	stopped bool
	stopCh  chan struct{}
}

// NewCenter creates a center polling at the given interval (zero means the
// default of 30s).
func NewCenter(api *API, interval time.Duration) *Center {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Center{
		api:      api,
		interval: interval,
	}
}

// Start refreshes immediately, then keeps polling on a fixed ticker until
// Stop is called or ctx is cancelled. The ticker goroutine is the only
// periodic caller, so scheduled refreshes never overlap.
func (c *Center) Start(ctx context.Context) {
	c.mu.Lock()
	if c.stopCh != nil {
		c.mu.Unlock()
		return
	}
	c.stopped = false
	c.stopCh = make(chan struct{})
	stopCh := c.stopCh
	c.mu.Unlock()

	go func() {
		c.Refresh(ctx)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Refresh(ctx)
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the polling timer. In-flight requests are not cancelled;
// their results are simply not applied once stopped.
func (c *Center) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopCh == nil {
		return
	}
	c.stopped = true
	close(c.stopCh)
	c.stopCh = nil
}

// Refresh fetches the backlog and replaces local state wholesale. The
// server's unread count is authoritative; whatever optimistic drift
// happened since the last poll ends here.
func (c *Center) Refresh(ctx context.Context) {
	backlog, err := c.api.FetchBacklog(ctx)
	if err != nil {
		log.Printf("[Center] Refresh failed: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.items = backlog.Notifications
	c.unread = backlog.UnreadCount
}

// MarkRead optimistically flips the item and decrements the unread count
// (floored at zero), then tells the backend. Failures are logged, not
// rolled back.
func (c *Center) MarkRead(ctx context.Context, id string) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id && !c.items[i].Read {
			c.items[i].Read = true
			if c.unread > 0 {
				c.unread--
			}
			break
		}
	}
	c.mu.Unlock()

	if err := c.api.MarkRead(ctx, id); err != nil {
		log.Printf("[Center] Mark read failed for %s: %v", id, err)
	}
}

// MarkAllRead optimistically flips every item and zeroes the unread count,
// then tells the backend.
func (c *Center) MarkAllRead(ctx context.Context) {
	c.mu.Lock()
	for i := range c.items {
		c.items[i].Read = true
	}
	c.unread = 0
	c.mu.Unlock()

	if err := c.api.MarkAllRead(ctx); err != nil {
		log.Printf("[Center] Mark all read failed: %v", err)
	}
}

// Delete optimistically removes the item from the local list, then tells
// the backend. If the call fails and the backend still has the row, the
// next refresh restores it.
func (c *Center) Delete(ctx context.Context, id string) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			if !c.items[i].Read && c.unread > 0 {
				c.unread--
			}
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if err := c.api.Delete(ctx, id); err != nil {
		log.Printf("[Center] Delete failed for %s: %v", id, err)
	}
}

// ClearAll optimistically empties the local list, then tells the backend.
func (c *Center) ClearAll(ctx context.Context) {
	c.mu.Lock()
	c.items = nil
	c.unread = 0
	c.mu.Unlock()

	if err := c.api.ClearAll(ctx); err != nil {
		log.Printf("[Center] Clear all failed: %v", err)
	}
}

// Items returns the displayed prefix of the backlog, most recent first.
func (c *Center) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	if n > displayCap {
		n = displayCap
	}
	out := make([]Item, n)
	copy(out, c.items[:n])
	return out
}

// Unread returns the locally tracked unread count.
func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}
