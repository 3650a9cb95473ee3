// Package webhook implements the subscription registry: the durable list of
// callback addresses that want to be notified of catalog mutations.
package webhook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

type subscriptionRepo interface {
	Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
	List(ctx context.Context) ([]domain.Subscription, error)
	ListByEvent(ctx context.Context, kind domain.EventKind) ([]domain.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service provides webhook subscription management.
type Service struct {
	subs subscriptionRepo
	log  *slog.Logger
}

// NewService creates a new webhook subscription service.
func NewService(log *slog.Logger, subs subscriptionRepo) *Service {
	return &Service{
		subs: subs,
		log:  log.With("service", "webhook"),
	}
}

// Register validates and persists a new subscription.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.Subscription, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	kind, _ := domain.ParseEventKind(input.Event)

	sub, err := s.subs.Create(ctx, &domain.Subscription{
		URL:   input.URL,
		Event: kind,
	})
	if err != nil {
		return nil, fmt.Errorf("register webhook: %w", err)
	}

	s.log.InfoContext(ctx, "webhook registered",
		slog.String("id", sub.ID.String()),
		slog.String("url", sub.URL),
		slog.String("event", sub.Event.String()),
	)

	return sub, nil
}

// List returns all registered subscriptions.
func (s *Service) List(ctx context.Context) ([]domain.Subscription, error) {
	subs, err := s.subs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	return subs, nil
}

// Unregister removes a subscription by id.
// Returns domain.ErrNotFound if it does not exist.
func (s *Service) Unregister(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	if err := s.subs.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "webhook unregistered", slog.String("id", id.String()))
	return nil
}

// FindByEvent returns all subscriptions interested in the given event kind.
// Used by the fan-out dispatcher.
func (s *Service) FindByEvent(ctx context.Context, kind domain.EventKind) ([]domain.Subscription, error) {
	subs, err := s.subs.ListByEvent(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("find webhooks by event: %w", err)
	}
	return subs, nil
}
