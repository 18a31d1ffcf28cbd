package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/client/models"
)

// Collection is the HTTP Records implementation for one named collection.
type Collection[T models.Record] struct {
	c    *RESTClient
	name string
}

var _ Records[models.User] = (*Collection[models.User])(nil)

func NewCollection[T models.Record](c *RESTClient, name string) *Collection[T] {
	return &Collection[T]{c: c, name: name}
}

func (col *Collection[T]) Name() string { return col.name }

func (col *Collection[T]) collectionPath() string {
	if col.c.style == config.APIStylePostgREST {
		return "/rest/v1/" + url.PathEscape(col.name)
	}
	return "/" + url.PathEscape(col.name)
}

// target returns path and query addressing a single record.
func (col *Collection[T]) target(id models.ID) (string, url.Values) {
	if col.c.style == config.APIStylePostgREST {
		return col.collectionPath(), url.Values{"id": {"eq." + id.String()}}
	}
	return col.collectionPath() + "/" + url.PathEscape(id.String()), nil
}

func (col *Collection[T]) representation() http.Header {
	if col.c.style != config.APIStylePostgREST {
		return nil
	}
	return http.Header{"Prefer": {"return=representation"}}
}

// List returns the whole collection in server order.
func (col *Collection[T]) List(ctx context.Context) ([]T, error) {
	var query url.Values
	if col.c.style == config.APIStylePostgREST {
		query = url.Values{"select": {"*"}}
	}

	data, err := col.c.do(ctx, request{method: http.MethodGet, path: col.collectionPath(), query: query})
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (col *Collection[T]) Get(ctx context.Context, id models.ID) (T, error) {
	path, query := col.target(id)
	data, err := col.c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeOne[T](data)
}

// Create posts draft and returns the stored record with its assigned id.
func (col *Collection[T]) Create(ctx context.Context, draft T) (T, error) {
	data, err := col.c.do(ctx, request{
		method: http.MethodPost,
		path:   col.collectionPath(),
		header: col.representation(),
		body:   draft,
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeOne[T](data)
}

func (col *Collection[T]) Update(ctx context.Context, id models.ID, rec T) (T, error) {
	path, query := col.target(id)
	data, err := col.c.do(ctx, request{
		method: http.MethodPatch,
		path:   path,
		query:  query,
		header: col.representation(),
		body:   rec,
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeOne[T](data)
}

func (col *Collection[T]) Delete(ctx context.Context, id models.ID) error {
	path, query := col.target(id)
	_, err := col.c.do(ctx, request{method: http.MethodDelete, path: path, query: query})
	return err
}

// decodeOne accepts either a single object or an array (PostgREST
// representation), in which case the first element is taken.
func decodeOne[T any](data []byte) (T, error) {
	var zero T
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return zero, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if len(items) == 0 {
			return zero, ErrNotFound
		}
		return items[0], nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return item, nil
}
