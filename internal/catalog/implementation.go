// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "bookshelf/catalog"

// service implements the Service interface over an in-memory slice.
// Every operation holds mu for its full duration, so operations never interleave.
type service struct {
	mu     sync.Mutex
	books  []Book
	tracer trace.Tracer
}

// Option configures the in-memory service.
type Option func(*service)

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *service) {
		s.tracer = t
	}
}

// NewService creates a catalog seeded with SeedBooks.
func NewService(opts ...Option) Service {
	s := &service{
		books:  SeedBooks(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a copy of the collection in insertion order.
func (s *service) List(ctx context.Context) ([]Book, error) {
	_, span := s.tracer.Start(ctx, "catalog.list")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	books := make([]Book, len(s.books))
	for i, b := range s.books {
		books[i] = b.clone()
	}

	span.SetAttributes(attribute.Int("books.count", len(books)))
	return books, nil
}

// Get returns the first record with the given id.
func (s *service) Get(ctx context.Context, id int) (*Book, error) {
	_, span := s.tracer.Start(ctx, "catalog.get",
		trace.WithAttributes(attribute.Int("book.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	span.SetAttributes(attribute.Bool("book.found", i >= 0))
	if i < 0 {
		return nil, fmt.Errorf("get book %d: %w", id, ErrBookNotFound)
	}

	book := s.books[i].clone()
	return &book, nil
}

// Create appends a new record. The id is len(collection)+1, which collides
// with a surviving record once any record other than the last has been
// deleted. Clients depend on this numbering, so it is kept as is.
func (s *service) Create(ctx context.Context, in BookInput) (*Book, error) {
	_, span := s.tracer.Start(ctx, "catalog.create")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	book := in.toBook(len(s.books) + 1)
	s.books = append(s.books, book)

	span.SetAttributes(
		attribute.Int("book.id", book.ID),
		attribute.Int("books.count", len(s.books)),
	)

	out := book.clone()
	return &out, nil
}

// Replace overwrites every field of the first record with the given id.
// Fields missing from in become absent; nothing is merged.
func (s *service) Replace(ctx context.Context, id int, in BookInput) (*Book, error) {
	_, span := s.tracer.Start(ctx, "catalog.replace",
		trace.WithAttributes(attribute.Int("book.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	span.SetAttributes(attribute.Bool("book.found", i >= 0))
	if i < 0 {
		return nil, fmt.Errorf("replace book %d: %w", id, ErrBookNotFound)
	}

	s.books[i] = in.toBook(id)

	out := s.books[i].clone()
	return &out, nil
}

// Delete removes the first record with the given id, keeping the order of the rest.
func (s *service) Delete(ctx context.Context, id int) (*Book, error) {
	_, span := s.tracer.Start(ctx, "catalog.delete",
		trace.WithAttributes(attribute.Int("book.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	span.SetAttributes(attribute.Bool("book.found", i >= 0))
	if i < 0 {
		return nil, fmt.Errorf("delete book %d: %w", id, ErrBookNotFound)
	}

	removed := s.books[i]
	s.books = append(s.books[:i], s.books[i+1:]...)

	span.SetAttributes(attribute.Int("books.count", len(s.books)))
	return &removed, nil
}

// Reset restores the seed records.
func (s *service) Reset(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "catalog.reset")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = SeedBooks()
}

// indexOf returns the position of the first record with id, or -1. Callers hold mu.
func (s *service) indexOf(id int) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}
