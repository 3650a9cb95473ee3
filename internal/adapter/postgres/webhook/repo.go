// Package webhook implements the webhook subscription repository using PostgreSQL.
package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres"
	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// Repo provides webhook subscription persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new webhook subscription repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

type subscriptionRow struct {
	ID        uuid.UUID `db:"id"`
	URL       string    `db:"url"`
	Event     string    `db:"event"`
	CreatedAt time.Time `db:"created_at"`
}

func (r subscriptionRow) toDomain() domain.Subscription {
	return domain.Subscription{
		ID:        r.ID,
		URL:       r.URL,
		Event:     domain.EventKind(r.Event),
		CreatedAt: r.CreatedAt,
	}
}

const (
	createSQL = `
INSERT INTO webhooks (id, url, event)
VALUES ($1, $2, $3)
RETURNING id, url, event, created_at`

	listSQL = `SELECT id, url, event, created_at FROM webhooks ORDER BY created_at`

	listByEventSQL = `SELECT id, url, event, created_at FROM webhooks WHERE event = $1`

	deleteSQL = `DELETE FROM webhooks WHERE id = $1`
)

// Create persists a new subscription and returns the stored record.
func (r *Repo) Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	id := sub.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var row subscriptionRow
	if err := pgxscan.Get(ctx, r.q, &row, createSQL, id, sub.URL, sub.Event.String()); err != nil {
		return nil, postgres.MapError(err, "webhook", id)
	}

	created := row.toDomain()
	return &created, nil
}

// List returns all subscriptions.
// Returns an empty slice (not nil) when none are registered.
func (r *Repo) List(ctx context.Context) ([]domain.Subscription, error) {
	rows := []subscriptionRow{}
	if err := pgxscan.Select(ctx, r.q, &rows, listSQL); err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}

	return toDomainSubs(rows), nil
}

// ListByEvent returns subscriptions registered for the given event kind.
// Returns an empty slice (not nil) when none match.
func (r *Repo) ListByEvent(ctx context.Context, kind domain.EventKind) ([]domain.Subscription, error) {
	rows := []subscriptionRow{}
	if err := pgxscan.Select(ctx, r.q, &rows, listByEventSQL, kind.String()); err != nil {
		return nil, fmt.Errorf("list webhooks by event: %w", err)
	}

	return toDomainSubs(rows), nil
}

// Delete removes a subscription by id.
// Returns domain.ErrNotFound if the subscription does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "webhook", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func toDomainSubs(rows []subscriptionRow) []domain.Subscription {
	subs := make([]domain.Subscription, len(rows))
	for i, row := range rows {
		subs[i] = row.toDomain()
	}
	return subs
}
