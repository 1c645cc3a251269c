package admin

import (
	"context"
	"sync"
)

// Cell holds a value that is replaced wholesale under a lock.
type Cell[S any] struct {
	mu    sync.Mutex
	value S
}

// NewCell returns a cell holding v.
func NewCell[S any](v S) *Cell[S] {
	return &Cell[S]{value: v}
}

// Get returns the current value.
func (c *Cell[S]) Get() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the value.
func (c *Cell[S]) Set(v S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
}

// Update replaces the value with fn applied to it.
func (c *Cell[S]) Update(fn func(S) S) S {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = fn(c.value)
	return c.value
}

// Optimistic applies tentative to the cell, then runs commit. When commit succeeds, the
// returned confirm function (if any) is applied on top of the tentative state. When it fails,
// the cell is restored to the snapshot taken before the tentative change and the error is
// returned.
func Optimistic[S any](
	ctx context.Context,
	cell *Cell[S],
	tentative func(S) S,
	commit func(context.Context) (confirm func(S) S, err error),
) error {
	cell.mu.Lock()
	snapshot := cell.value
	cell.value = tentative(snapshot)
	cell.mu.Unlock()

	confirm, err := commit(ctx)
	if err != nil {
		cell.Set(snapshot)
		return err
	}
	if confirm != nil {
		cell.Update(confirm)
	}
	return nil
}
