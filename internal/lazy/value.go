// Package lazy provides an explicit-state memo cell for values fetched from a
// remote server: a cell is either Unloaded or Loaded(value), Get fills it on
// first access and Invalidate resets it so the next Get fetches again.
package lazy

// Value is a single cached value. The zero Value is Unloaded and ready to use.
// It is not safe for concurrent use; callers synchronize externally.
type Value[T any] struct {
	loaded bool
	v      T
}

// Get returns the cached value, calling fetch and storing its result first
// when the cell is Unloaded.
func (c *Value[T]) Get(fetch func() T) T {
	if !c.loaded {
		c.v = fetch()
		c.loaded = true
	}
	return c.v
}

// Invalidate drops the cached value.
func (c *Value[T]) Invalidate() {
	var zero T
	c.v = zero
	c.loaded = false
}

// Loaded reports whether the cell currently holds a value.
func (c *Value[T]) Loaded() bool {
	return c.loaded
}

// Peek returns the cached value without fetching.
func (c *Value[T]) Peek() (T, bool) {
	return c.v, c.loaded
}
