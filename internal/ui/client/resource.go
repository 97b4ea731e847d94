package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Resource is a CRUD client for one REST collection.
//
// The collection lives at "<path>/" and its members at "<path>/{id}". When transform is set it
// is applied to the payload of Create and Update before it is sent.
type Resource[T any] struct {
	client    *Client
	path      string
	transform func(T) T
}

func NewResource[T any](c *Client, path string, transform func(T) T) *Resource[T] {
	return &Resource[T]{
		client:    c,
		path:      path,
		transform: transform,
	}
}

// Path returns the path prefix of the collection, e.g. "/children"
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) collectionPath() string {
	return r.path + "/"
}

func (r *Resource[T]) memberPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) payload(data T) T {
	if r.transform == nil {
		return data
	}
	return r.transform(data)
}

// List fetches every member of the collection
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.do(ctx, http.MethodGet, r.collectionPath(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a single member by id
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.client.do(ctx, http.MethodGet, r.memberPath(id), nil, &item)
	return item, err
}

// Create posts a new member and returns the server's representation of it
func (r *Resource[T]) Create(ctx context.Context, data T) (T, error) {
	var created T
	err := r.client.do(ctx, http.MethodPost, r.collectionPath(), r.payload(data), &created)
	return created, err
}

// Update replaces the member with the given id and returns the server's representation of it
func (r *Resource[T]) Update(ctx context.Context, id string, data T) (T, error) {
	var updated T
	err := r.client.do(ctx, http.MethodPut, r.memberPath(id), r.payload(data), &updated)
	return updated, err
}

// Delete removes the member with the given id. The response body is returned as is, it is nil when the server sends none.
func (r *Resource[T]) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	var body json.RawMessage
	if err := r.client.do(ctx, http.MethodDelete, r.memberPath(id), nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}
