// Package statestore mirrors the server-side collections in memory. Each
// store writes the server's returned record back into its mirror after a
// successful call, never a speculative local guess, so the mirror cannot
// drift from the backing store.
package statestore

import "sync"

// collection is the shared mirror core: the ordered record slice, a
// best-effort loading flag, and the last error slot.
type collection[R any] struct {
	mu      sync.RWMutex
	items   []R
	loading bool
	lastErr error
	idOf    func(R) int
}

func newCollection[R any](idOf func(R) int) collection[R] {
	return collection[R]{items: []R{}, idOf: idOf}
}

// begin marks a store call in flight and clears the error slot.
func (c *collection[R]) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
	c.lastErr = nil
}

// finish releases the loading flag and records the call's outcome. It is
// deferred by every store method so the flag clears on all paths.
func (c *collection[R]) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastErr = err
	}
}

func (c *collection[R]) replaceAll(items []R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if items == nil {
		items = []R{}
	}
	c.items = items
}

func (c *collection[R]) add(item R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

func (c *collection[R]) replaceByID(item R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.idOf(item)
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items[i] = item
			return
		}
	}
}

func (c *collection[R]) removeByID(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, item := range c.items {
		if c.idOf(item) != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

func (c *collection[R]) snapshot() []R {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]R, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[R]) byID(id int) (R, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero R
	return zero, false
}

func (c *collection[R]) isLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *collection[R]) err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
