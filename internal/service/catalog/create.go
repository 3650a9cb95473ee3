package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// Create validates the input, persists a new book and, once the write has
// committed, hands the created event to the fan-out dispatcher. The response
// never waits on webhook completion.
func (s *Service) Create(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.books.Create(ctx, &domain.Book{
		Title:      strings.TrimSpace(input.Title),
		Author:     strings.TrimSpace(input.Author),
		CoverImage: trimOrNil(input.CoverImage),
	})
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.fanout.Dispatch(ctx, domain.Event{
		Kind: domain.EventBookCreated,
		Book: created,
	})

	s.log.InfoContext(ctx, "book created",
		slog.Int64("book_id", created.ID),
		slog.String("title", created.Title),
	)

	return created, nil
}
