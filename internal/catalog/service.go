// internal/catalog/service.go
package catalog

import "context"

// Service defines the interface for the book catalog.
type Service interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id int) (*Book, error)
	Create(ctx context.Context, in BookInput) (*Book, error)
	Replace(ctx context.Context, id int, in BookInput) (*Book, error)
	Delete(ctx context.Context, id int) (*Book, error)
	Reset(ctx context.Context)
}
