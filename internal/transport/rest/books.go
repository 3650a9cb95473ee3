package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
	"github.com/heartmarshall/bookshelf-backend/internal/service/catalog"
)

// catalogService defines the minimal interface needed by BooksHandler.
type catalogService interface {
	Get(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, input catalog.ListBooksInput) ([]domain.Book, error)
	Create(ctx context.Context, input catalog.CreateBookInput) (*domain.Book, error)
	Update(ctx context.Context, id int64, input catalog.UpdateBookInput) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
}

// BooksHandler serves the book catalog REST endpoints.
type BooksHandler struct {
	svc catalogService
	log *slog.Logger
}

// NewBooksHandler creates a BooksHandler.
func NewBooksHandler(svc catalogService, logger *slog.Logger) *BooksHandler {
	return &BooksHandler{svc: svc, log: logger.With("handler", "books")}
}

type bookResponse struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	CoverImage *string `json:"cover_image"`
}

type createBookRequest struct {
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	CoverImage *string `json:"cover_image"`
}

type updateBookRequest struct {
	Title      *string `json:"title"`
	Author     *string `json:"author"`
	CoverImage *string `json:"cover_image"`
}

// List handles GET /v1/books.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	input, errs := parseListQuery(r)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	books, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponses(books))
}

// Get handles GET /v1/books/{id}.
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	book, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(*book))
}

// Create handles POST /v1/books.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.svc.Create(r.Context(), catalog.CreateBookInput{
		Title:      req.Title,
		Author:     req.Author,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookResponse(*book))
}

// Update handles PUT /v1/books/{id}.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.svc.Update(r.Context(), id, catalog.UpdateBookInput{
		Title:      req.Title,
		Author:     req.Author,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(*book))
}

// Delete handles DELETE /v1/books/{id}. Responds 204 with no body.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseListQuery converts query parameters into a ListBooksInput, collecting
// a field error for every malformed value.
func parseListQuery(r *http.Request) (catalog.ListBooksInput, []domain.FieldError) {
	var (
		input catalog.ListBooksInput
		errs  []domain.FieldError
	)

	q := r.URL.Query()

	if s := q.Get("search"); s != "" {
		input.Search = &s
	}
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "page", Message: "must be an integer"})
		} else {
			input.Page = &n
		}
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "limit", Message: "must be an integer"})
		} else {
			input.Limit = &n
		}
	}
	if sb := q.Get("sortBy"); sb != "" {
		input.SortBy = &sb
	}
	if so := q.Get("sortOrder"); so != "" {
		input.SortOrder = &so
	}

	return input, errs
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return 0, false
	}
	return id, true
}

func toBookResponse(b domain.Book) bookResponse {
	return bookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		CoverImage: b.CoverImage,
	}
}

func toBookResponses(books []domain.Book) []bookResponse {
	out := make([]bookResponse, len(books))
	for i, b := range books {
		out[i] = toBookResponse(b)
	}
	return out
}
