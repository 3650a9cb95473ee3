package catalog

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// Update validates the input and applies a partial update. Fields omitted
// from the input are left unchanged. A nonexistent id yields
// domain.ErrNotFound with no state change and no fan-out.
func (s *Service) Update(ctx context.Context, id int64, input UpdateBookInput) (*domain.Book, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.books.Update(ctx, id, domain.BookUpdateParams{
		Title:      trimOrNil(input.Title),
		Author:     trimOrNil(input.Author),
		CoverImage: trimOrNil(input.CoverImage),
	})
	if err != nil {
		return nil, err
	}

	s.fanout.Dispatch(ctx, domain.Event{
		Kind: domain.EventBookUpdated,
		Book: updated,
	})

	s.log.InfoContext(ctx, "book updated", slog.Int64("book_id", id))

	return updated, nil
}
