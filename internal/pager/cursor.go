// Package pager tracks which page a list should fetch next.
package pager

import "sync"

// Cursor is a per-list page counter. It starts at 0, moves forward only after
// a successful fetch and returns to 0 on refresh. The zero value is ready.
type Cursor struct {
	mu   sync.Mutex
	page int
}

// Current returns the page for the next fetch.
func (c *Cursor) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Advance moves to the following page.
func (c *Cursor) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page++
}

// Reset rewinds to the first page.
func (c *Cursor) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = 0
}
