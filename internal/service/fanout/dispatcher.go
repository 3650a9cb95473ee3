// Package fanout coordinates the side effects of a committed catalog
// mutation: cache invalidation, the real-time broadcast, and webhook
// delivery to registered subscribers.
//
// Every effect is best-effort and isolated: a failure in one never blocks or
// cancels another, and none of them can change the outcome of the mutation
// that triggered them. Events are not persisted, so a crash between persist
// and dispatch drops them (at-most-once).
package fanout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/redis"
	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// Topic is the broadcast channel for catalog mutation events.
const Topic = "catalog-updates"

type subscriptionFinder interface {
	FindByEvent(ctx context.Context, kind domain.EventKind) ([]domain.Subscription, error)
}

type broadcaster interface {
	Broadcast(topic string, data []byte)
}

type cacheInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// Dispatcher fans a mutation event out to all downstream consumers.
type Dispatcher struct {
	subs     subscriptionFinder
	hub      broadcaster
	cache    cacheInvalidator
	client   *http.Client
	timeout  time.Duration
	log      *slog.Logger
	inFlight sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. timeout bounds each webhook delivery so
// an unreachable subscriber cannot hold resources indefinitely.
func NewDispatcher(
	log *slog.Logger,
	subs subscriptionFinder,
	hub broadcaster,
	cache cacheInvalidator,
	timeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		subs:    subs,
		hub:     hub,
		cache:   cache,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		log:     log.With("service", "fanout"),
	}
}

// eventPayload is the wire shape delivered to subscribers and broadcast
// listeners. Deleted events carry only the id.
type eventPayload struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title,omitempty"`
	Author     string  `json:"author,omitempty"`
	CoverImage *string `json:"coverImage,omitempty"`
}

// Dispatch fires all side effects for a committed mutation. It detaches from
// the caller's context so an already-finished HTTP request cannot cancel
// deliveries, and it returns as soon as every delivery has been initiated.
// It never returns an error: fan-out failures are logged, not propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) {
	ctx = context.WithoutCancel(ctx)

	payload, err := json.Marshal(buildPayload(event))
	if err != nil {
		d.log.ErrorContext(ctx, "marshal event payload",
			slog.String("event", event.Kind.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	d.invalidateCache(ctx, event)
	d.hub.Broadcast(Topic, payload)
	d.deliverWebhooks(ctx, event.Kind, payload)
}

// Wait blocks until all in-flight webhook deliveries complete. Used during
// shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.inFlight.Wait()
}

func buildPayload(event domain.Event) eventPayload {
	if event.Book == nil {
		return eventPayload{ID: event.BookID}
	}
	return eventPayload{
		ID:         event.Book.ID,
		Title:      event.Book.Title,
		Author:     event.Book.Author,
		CoverImage: event.Book.CoverImage,
	}
}

// invalidateCache drops the cached single-record response for the affected
// book so the next read observes the write instead of a stale snapshot.
func (d *Dispatcher) invalidateCache(ctx context.Context, event domain.Event) {
	id := event.BookID
	if event.Book != nil {
		id = event.Book.ID
	}

	key := redis.ResponseKey(fmt.Sprintf("/v1/books/%d", id))
	if err := d.cache.Delete(ctx, key); err != nil {
		d.log.WarnContext(ctx, "cache invalidation failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// deliverWebhooks looks up matching subscriptions and delivers to each in its
// own goroutine. One subscriber's failure never prevents delivery to the
// others and never surfaces to the caller.
func (d *Dispatcher) deliverWebhooks(ctx context.Context, kind domain.EventKind, payload []byte) {
	subs, err := d.subs.FindByEvent(ctx, kind)
	if err != nil {
		d.log.ErrorContext(ctx, "lookup subscriptions failed",
			slog.String("event", kind.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, sub := range subs {
		d.inFlight.Add(1)
		go func(sub domain.Subscription) {
			defer d.inFlight.Done()
			d.deliver(ctx, sub, payload)
		}(sub)
	}
}

// deliver attempts a single notification. At most one attempt: failures are
// logged and dropped, never retried or queued.
func (d *Dispatcher) deliver(ctx context.Context, sub domain.Subscription, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(payload))
	if err != nil {
		d.logDeliveryFailure(ctx, sub, err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Bookshelf-Event", sub.Event.String())

	resp, err := d.client.Do(req)
	if err != nil {
		d.logDeliveryFailure(ctx, sub, err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.logDeliveryFailure(ctx, sub, fmt.Sprintf("unexpected status %d", resp.StatusCode))
		return
	}

	d.log.DebugContext(ctx, "webhook delivered",
		slog.String("subscription_id", sub.ID.String()),
		slog.String("url", sub.URL),
	)
}

func (d *Dispatcher) logDeliveryFailure(ctx context.Context, sub domain.Subscription, reason string) {
	d.log.WarnContext(ctx, "webhook delivery failed",
		slog.String("subscription_id", sub.ID.String()),
		slog.String("url", sub.URL),
		slog.String("event", sub.Event.String()),
		slog.String("reason", reason),
	)
}
