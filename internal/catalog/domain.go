// internal/catalog/domain.go
package catalog

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")
	ErrEmptyBody    = errors.New("request body required")
)

// Book is a single record in the collection. Every field except ID may be
// absent, in which case it is nil and left out of the JSON encoding.
type Book struct {
	ID              int     `json:"id"`
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	Genre           *string `json:"genre,omitempty"`
	CopiesAvailable *int    `json:"copiesAvailable,omitempty"`
}

// BookInput carries the client-supplied fields of a create or replace request.
type BookInput struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	Genre           *string `json:"genre,omitempty"`
	CopiesAvailable *int    `json:"copiesAvailable,omitempty"`
}

// IsEmpty reports whether no field was supplied.
func (in BookInput) IsEmpty() bool {
	return in.Title == nil && in.Author == nil && in.Genre == nil && in.CopiesAvailable == nil
}

// toBook builds a fresh record with the given id. Pointers are copied so the
// stored record never aliases caller memory.
func (in BookInput) toBook(id int) Book {
	return Book{
		ID:              id,
		Title:           cloneString(in.Title),
		Author:          cloneString(in.Author),
		Genre:           cloneString(in.Genre),
		CopiesAvailable: cloneInt(in.CopiesAvailable),
	}
}

// clone returns a deep copy of b.
func (b Book) clone() Book {
	return Book{
		ID:              b.ID,
		Title:           cloneString(b.Title),
		Author:          cloneString(b.Author),
		Genre:           cloneString(b.Genre),
		CopiesAvailable: cloneInt(b.CopiesAvailable),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// SeedBooks returns the records the collection starts with.
func SeedBooks() []Book {
	return []Book{
		newSeed(1, "The Great Gatsby", "F. Scott Fitzgerald", "Fiction", 5),
		newSeed(2, "To Kill a Mockingbird", "Harper Lee", "Fiction", 3),
		newSeed(3, "1984", "George Orwell", "Dystopian", 4),
	}
}

func newSeed(id int, title, author, genre string, copies int) Book {
	return Book{
		ID:              id,
		Title:           &title,
		Author:          &author,
		Genre:           &genre,
		CopiesAvailable: &copies,
	}
}
