// internal/clients/books_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"bookshelf/internal/catalog"
)

// APIError is a non-2xx response from the books API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("books api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the books API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type BooksClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBooksClient returns a client for the server at baseURL. A nil
// httpClient means http.DefaultClient.
func NewBooksClient(baseURL string, httpClient *http.Client) *BooksClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BooksClient{baseURL: baseURL, httpClient: httpClient}
}

func (c *BooksClient) List(ctx context.Context) ([]catalog.Book, error) {
	var books []catalog.Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *BooksClient) Get(ctx context.Context, id int) (*catalog.Book, error) {
	var book catalog.Book
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d", id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *BooksClient) Create(ctx context.Context, in catalog.BookInput) (*catalog.Book, error) {
	var book catalog.Book
	if err := c.do(ctx, http.MethodPost, "/api/books", in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *BooksClient) Replace(ctx context.Context, id int, in catalog.BookInput) (*catalog.Book, error) {
	var book catalog.Book
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/books/%d", id), in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *BooksClient) Delete(ctx context.Context, id int) (*catalog.Book, error) {
	var resp catalog.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Book, nil
}

func (c *BooksClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
