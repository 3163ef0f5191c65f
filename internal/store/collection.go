package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when an entity is absent from both the cache and
// the remote collection.
var ErrNotFound = errors.New("entity not found")

// Source is the remote side of a collection.
type Source[T any] interface {
	List(ctx context.Context) ([]T, error)
	Add(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Collection is a cache-first view of one remote entity collection.
//
// Reads: List(ctx, false) returns the cached copy immediately when one
// exists and revalidates in the background; List(ctx, true) always awaits
// the remote source. Writes always go to the remote source synchronously;
// the cache is only patched after the remote accepts the write, so a failed
// write never corrupts cached state.
//
// A monotonic version counter orders cache replacements: a background
// refresh only lands if no write (or newer refresh) happened after it
// started, so a stale response can never overwrite a more recent local
// mutation.
type Collection[T any] struct {
	src   Source[T]
	id    func(T) string
	clone func(T) T

	mu      sync.RWMutex
	items   []T
	loaded  bool
	version uint64

	bg sync.WaitGroup
}

// NewCollection creates an empty (cold) collection over the given source.
// id extracts an entity's identifier; clone deep-copies an entity so callers
// can never mutate cached state through a returned reference.
func NewCollection[T any](src Source[T], id func(T) string, clone func(T) T) *Collection[T] {
	return &Collection[T]{src: src, id: id, clone: clone}
}

// List returns the collection. With force false and a warm cache the cached
// copy is returned immediately and a background revalidation is kicked off;
// its result replaces the cache atomically when it lands, or is discarded if
// a write got there first. With force true (or a cold cache) the call awaits
// the remote source.
func (c *Collection[T]) List(ctx context.Context, force bool) ([]T, error) {
	if !force {
		c.mu.RLock()
		if c.loaded {
			out := c.copyAllLocked()
			start := c.version
			c.mu.RUnlock()

			c.bg.Add(1)
			go func() {
				defer c.bg.Done()
				c.revalidate(start)
			}()
			return out, nil
		}
		c.mu.RUnlock()
	}
	return c.refresh(ctx)
}

// Get returns one entity by ID, from the cache when warm.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	c.mu.RLock()
	if c.loaded {
		for i := range c.items {
			if c.id(c.items[i]) == id {
				out := c.clone(c.items[i])
				c.mu.RUnlock()
				return out, nil
			}
		}
		c.mu.RUnlock()
		return zero, ErrNotFound
	}
	c.mu.RUnlock()

	items, err := c.refresh(ctx)
	if err != nil {
		return zero, err
	}
	for i := range items {
		if c.id(items[i]) == id {
			return items[i], nil
		}
	}
	return zero, ErrNotFound
}

// Add creates the entity remotely, then inserts the stored copy into the
// cache. On failure the cache is untouched and the error propagates.
func (c *Collection[T]) Add(ctx context.Context, entity T) (T, error) {
	created, err := c.src.Add(ctx, entity)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	if c.loaded {
		c.items = append(c.items, c.clone(created))
	}
	c.version++
	c.mu.Unlock()
	return created, nil
}

// Update replaces the entity remotely, then patches the cache.
func (c *Collection[T]) Update(ctx context.Context, entity T) (T, error) {
	updated, err := c.src.Update(ctx, entity)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	if c.loaded {
		for i := range c.items {
			if c.id(c.items[i]) == c.id(updated) {
				c.items[i] = c.clone(updated)
				break
			}
		}
	}
	c.version++
	c.mu.Unlock()
	return updated, nil
}

// Delete removes the entity remotely, then drops it from the cache.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.src.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	if c.loaded {
		for i := range c.items {
			if c.id(c.items[i]) == id {
				c.items = append(c.items[:i], c.items[i+1:]...)
				break
			}
		}
	}
	c.version++
	c.mu.Unlock()
	return nil
}

// WaitBackground blocks until every pending background revalidation has
// either landed or been discarded. Used at shutdown and in tests.
func (c *Collection[T]) WaitBackground() {
	c.bg.Wait()
}

// refresh fetches the remote collection and replaces the cache, unless a
// write landed while the fetch was in flight, in which case the newer local
// state wins and is what gets returned.
func (c *Collection[T]) refresh(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	start := c.version
	c.mu.RUnlock()

	fresh, err := c.src.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.version == start {
		c.items = fresh
		c.loaded = true
		c.version++
	}
	out := c.copyAllLocked()
	c.mu.Unlock()
	return out, nil
}

// revalidate is the background half of a cache-first List. The result is
// discarded if the cache moved on while the fetch was in flight. A failed
// fetch leaves the cache as-is; the caller already has data.
func (c *Collection[T]) revalidate(start uint64) {
	// Deliberately not tied to the caller's context: the caller already
	// returned with cached data.
	fresh, err := c.src.List(context.Background())
	if err != nil {
		return
	}

	c.mu.Lock()
	if c.version == start && c.loaded {
		c.items = fresh
		c.version++
	}
	c.mu.Unlock()
}

// copyAllLocked clones the cached slice. Callers must hold mu.
func (c *Collection[T]) copyAllLocked() []T {
	out := make([]T, len(c.items))
	for i := range c.items {
		out[i] = c.clone(c.items[i])
	}
	return out
}
