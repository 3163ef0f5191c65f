package remote

import (
	"context"
	"net/http"
)

// Resource provides list/add/update/delete for one remote entity collection.
// The server owns canonical state; Add and Update return the stored copy.
type Resource[T any] struct {
	c      *Client
	path   string
	entity string
	id     func(T) string
}

// List fetches the full collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &out, "list", r.entity); err != nil {
		return nil, err
	}
	return out, nil
}

// Add creates the entity remotely and returns the stored copy.
func (r *Resource[T]) Add(ctx context.Context, entity T) (T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPost, r.path, entity, &out, "add", r.entity); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update replaces the entity remotely and returns the stored copy.
func (r *Resource[T]) Update(ctx context.Context, entity T) (T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPut, r.path+"/"+r.id(entity), entity, &out, "update", r.entity); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Delete removes the entity remotely. Irreversible; there is no soft delete.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.path+"/"+id, nil, nil, "delete", r.entity)
}
