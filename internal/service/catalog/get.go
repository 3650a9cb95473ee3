package catalog

import (
	"context"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// Get returns a single book by id, or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Book, error) {
	return s.books.GetByID(ctx, id)
}
