package catalog

import (
	"context"
	"fmt"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// List returns a page of books matching the query. Invalid parameter values
// are rejected with a structured list of field errors before the store is
// touched.
func (s *Service) List(ctx context.Context, input ListBooksInput) ([]domain.Book, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	books, err := s.books.List(ctx, input.toFilter())
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}
