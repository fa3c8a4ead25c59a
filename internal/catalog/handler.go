// internal/catalog/handler.go
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/http/response"
)

const maxBodyBytes = 1 << 20

const (
	msgBookNotFound = "Book not found"
	msgBodyRequired = "Request body required"
	msgInvalidBody  = "Invalid JSON body"
	msgBookDeleted  = "Book deleted successfully"
)

var errInvalidBody = errors.New("invalid JSON body")

// DeleteResponse is returned by a successful delete.
type DeleteResponse struct {
	Message string `json:"message"`
	Book    Book   `json:"book"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the book routes on r, relative to the collection path.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleReplace)
	r.Delete("/{id}", h.HandleDelete)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, err, h.logger)
		return
	}

	response.Success(w, books, h.logger)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		response.NotFound(w, msgBookNotFound, h.logger)
		return
	}

	book, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, book, h.logger)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := readBookInput(r, true)
	if err != nil {
		h.writeError(w, err)
		return
	}

	book, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Debug("Book created", "book_id", book.ID)
	response.Created(w, book, h.logger)
}

func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		response.NotFound(w, msgBookNotFound, h.logger)
		return
	}

	in, bodyErr := readBookInput(r, false)
	if bodyErr != nil {
		// Unknown ids win over a bad body.
		if _, err := h.service.Get(r.Context(), id); err != nil {
			h.writeError(w, err)
			return
		}
		h.writeError(w, bodyErr)
		return
	}

	book, err := h.service.Replace(r.Context(), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, book, h.logger)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		response.NotFound(w, msgBookNotFound, h.logger)
		return
	}

	book, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Debug("Book deleted", "book_id", book.ID)
	response.Success(w, DeleteResponse{Message: msgBookDeleted, Book: *book}, h.logger)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBookNotFound):
		response.NotFound(w, msgBookNotFound, h.logger)
	case errors.Is(err, ErrEmptyBody):
		response.BadRequest(w, msgBodyRequired, h.logger)
	case errors.Is(err, errInvalidBody):
		response.BadRequest(w, msgInvalidBody, h.logger)
	default:
		response.InternalError(w, err, h.logger)
	}
}

// bookID parses the {id} path segment. Anything that is not a base-10
// integer is reported as not ok and treated by callers as an unknown book.
func bookID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// readBookInput decodes the request body. A missing body, whitespace, null or
// {} counts as empty; requireBody turns that into ErrEmptyBody. Only a body
// that is not a JSON object is invalid.
func readBookInput(r *http.Request, requireBody bool) (BookInput, error) {
	var in BookInput
	if r.Body == nil {
		r.Body = http.NoBody
	}

	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return in, errors.Join(errInvalidBody, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		if requireBody {
			return in, ErrEmptyBody
		}
		return in, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return in, errors.Join(errInvalidBody, err)
	}
	if len(fields) == 0 {
		if requireBody {
			return in, ErrEmptyBody
		}
		return in, nil
	}

	in.Title = decodeField[string](fields, "title")
	in.Author = decodeField[string](fields, "author")
	in.Genre = decodeField[string](fields, "genre")
	in.CopiesAvailable = decodeField[int](fields, "copiesAvailable")
	return in, nil
}

// decodeField returns the named field, or nil when it is missing, null or
// not of type T. A wrongly typed field is stored as absent, never rejected.
func decodeField[T any](fields map[string]json.RawMessage, key string) *T {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
