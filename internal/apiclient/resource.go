package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/talkincode/toughinvoice/internal/domain"
)

// Resource is the remote collection of one entity kind.
// Implementations report every failure as a *RemoteError.
type Resource[T any] interface {
	// List returns the whole collection as the api orders it
	List(ctx context.Context) ([]T, error)

	// Create submits a new record. The response body is not read back.
	Create(ctx context.Context, item T) error

	// Update replaces the record stored under id
	Update(ctx context.Context, id string, item T) error

	// Delete removes the record stored under id
	Delete(ctx context.Context, id string) error
}

const (
	CustomerPath = "/Customer"
	ProductPath  = "/Product"
	InvoicePath  = "/Invoice"
)

// HTTPResource implements Resource over the REST api.
type HTTPResource[T any] struct {
	client *Client
	path   string
}

var (
	_ Resource[domain.Customer] = (*HTTPResource[domain.Customer])(nil)
	_ Resource[domain.Product]  = (*HTTPResource[domain.Product])(nil)
	_ Resource[domain.Invoice]  = (*HTTPResource[domain.Invoice])(nil)
)

func NewHTTPResource[T any](client *Client, path string) *HTTPResource[T] {
	return &HTTPResource[T]{client: client, path: path}
}

func (r *HTTPResource[T]) Path() string {
	return r.path
}

func (r *HTTPResource[T]) List(ctx context.Context) ([]T, error) {
	body, err := r.client.do(ctx, http.MethodGet, r.path, nil)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if len(body) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &RemoteError{
			Method:  http.MethodGet,
			Path:    r.path,
			Payload: "invalid response body",
			Cause:   errors.Wrap(err, "decode "+r.path),
		}
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

func (r *HTTPResource[T]) Create(ctx context.Context, item T) error {
	_, err := r.client.do(ctx, http.MethodPost, r.path, item)
	return err
}

func (r *HTTPResource[T]) Update(ctx context.Context, id string, item T) error {
	_, err := r.client.do(ctx, http.MethodPut, r.itemPath(id), item)
	return err
}

func (r *HTTPResource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil)
	return err
}

func (r *HTTPResource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
