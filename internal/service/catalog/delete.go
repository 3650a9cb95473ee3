package catalog

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// Delete removes a book permanently. A nonexistent id yields
// domain.ErrNotFound with no other effect. The deleted event carries only
// the id: the record no longer exists at dispatch time.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}

	s.fanout.Dispatch(ctx, domain.Event{
		Kind:   domain.EventBookDeleted,
		BookID: id,
	})

	s.log.InfoContext(ctx, "book deleted", slog.Int64("book_id", id))

	return nil
}
