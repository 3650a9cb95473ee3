// Package catalog implements catalog reads and the mutation orchestrator:
// every write is persisted first, and only a committed write hands its event
// to the fan-out dispatcher.
package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres/book"
	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

type bookRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, f book.Filter) ([]domain.Book, error)
	Create(ctx context.Context, b *domain.Book) (*domain.Book, error)
	Update(ctx context.Context, id int64, params domain.BookUpdateParams) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, event domain.Event)
}

// Service provides catalog operations.
type Service struct {
	books  bookRepo
	fanout dispatcher
	log    *slog.Logger
}

// NewService creates a new catalog service.
func NewService(log *slog.Logger, books bookRepo, fanout dispatcher) *Service {
	return &Service{
		books:  books,
		fanout: fanout,
		log:    log.With("service", "catalog"),
	}
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
