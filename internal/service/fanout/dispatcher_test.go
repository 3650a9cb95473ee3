package fanout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type subsStub struct {
	subs []domain.Subscription
	err  error
}

func (s *subsStub) FindByEvent(ctx context.Context, kind domain.EventKind) ([]domain.Subscription, error) {
	return s.subs, s.err
}

type hubStub struct {
	mu     sync.Mutex
	topics []string
	frames [][]byte
}

func (h *hubStub) Broadcast(topic string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.topics = append(h.topics, topic)
	h.frames = append(h.frames, data)
}

func (h *hubStub) broadcasts() ([]string, [][]byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.topics, h.frames
}

type cacheStub struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (c *cacheStub) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys...)
	return c.err
}

func (c *cacheStub) deletedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleted
}

// received collects webhook request bodies delivered to a test server.
type received struct {
	mu     sync.Mutex
	bodies [][]byte
	events []string
}

func (r *received) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, body)
		r.events = append(r.events, req.Header.Get("X-Bookshelf-Event"))
		r.mu.Unlock()
		w.WriteHeader(status)
	}
}

func (r *received) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func newTestDispatcher(subs subscriptionFinder, hub broadcaster, cache cacheInvalidator) *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(logger, subs, hub, cache, 2*time.Second)
}

func sub(url string, kind domain.EventKind) domain.Subscription {
	return domain.Subscription{ID: uuid.New(), URL: url, Event: kind}
}

func createdEvent(id int64) domain.Event {
	return domain.Event{
		Kind: domain.EventBookCreated,
		Book: &domain.Book{ID: id, Title: "Dune", Author: "Frank Herbert"},
	}
}

// ---------------------------------------------------------------------------
// Dispatch tests
// ---------------------------------------------------------------------------

func TestDispatcher_Dispatch_DeliversToAllSubscribers(t *testing.T) {
	t.Parallel()

	rec := &received{}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	subs := &subsStub{subs: []domain.Subscription{
		sub(srv.URL, domain.EventBookCreated),
		sub(srv.URL, domain.EventBookCreated),
		sub(srv.URL, domain.EventBookCreated),
	}}

	d := newTestDispatcher(subs, &hubStub{}, &cacheStub{})
	d.Dispatch(context.Background(), createdEvent(1))
	d.Wait()

	require.Equal(t, 3, rec.count())
	assert.Equal(t, "book.created", rec.events[0])

	var payload struct {
		ID     int64  `json:"id"`
		Title  string `json:"title"`
		Author string `json:"author"`
	}
	require.NoError(t, json.Unmarshal(rec.bodies[0], &payload))
	assert.Equal(t, int64(1), payload.ID)
	assert.Equal(t, "Dune", payload.Title)
	assert.Equal(t, "Frank Herbert", payload.Author)
}

func TestDispatcher_Dispatch_OneFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	rec := &received{}
	okSrv := httptest.NewServer(rec.handler(http.StatusOK))
	defer okSrv.Close()

	failSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failSrv.Close()

	subs := &subsStub{subs: []domain.Subscription{
		sub(okSrv.URL, domain.EventBookCreated),
		sub(failSrv.URL, domain.EventBookCreated),
		sub(okSrv.URL, domain.EventBookCreated),
	}}

	d := newTestDispatcher(subs, &hubStub{}, &cacheStub{})
	d.Dispatch(context.Background(), createdEvent(1))
	d.Wait()

	assert.Equal(t, 2, rec.count())
}

func TestDispatcher_Dispatch_UnreachableSubscriber(t *testing.T) {
	t.Parallel()

	rec := &received{}
	okSrv := httptest.NewServer(rec.handler(http.StatusOK))
	defer okSrv.Close()

	subs := &subsStub{subs: []domain.Subscription{
		sub("http://127.0.0.1:1", domain.EventBookCreated),
		sub(okSrv.URL, domain.EventBookCreated),
	}}

	d := newTestDispatcher(subs, &hubStub{}, &cacheStub{})
	d.Dispatch(context.Background(), createdEvent(1))
	d.Wait()

	assert.Equal(t, 1, rec.count())
}

func TestDispatcher_Dispatch_NoSubscribers(t *testing.T) {
	t.Parallel()

	hub := &hubStub{}
	d := newTestDispatcher(&subsStub{}, hub, &cacheStub{})

	d.Dispatch(context.Background(), createdEvent(1))
	d.Wait()

	// The broadcast still happens even with nobody registered for webhooks.
	topics, _ := hub.broadcasts()
	assert.Equal(t, []string{Topic}, topics)
}

func TestDispatcher_Dispatch_SubscriptionLookupFailure(t *testing.T) {
	t.Parallel()

	hub := &hubStub{}
	cache := &cacheStub{}
	subs := &subsStub{err: errors.New("connection refused")}

	d := newTestDispatcher(subs, hub, cache)
	d.Dispatch(context.Background(), createdEvent(1))
	d.Wait()

	// Lookup failure kills webhook delivery only; the other effects ran.
	topics, _ := hub.broadcasts()
	assert.Equal(t, []string{Topic}, topics)
	assert.NotEmpty(t, cache.deletedKeys())
}

func TestDispatcher_Dispatch_BroadcastPayload(t *testing.T) {
	t.Parallel()

	hub := &hubStub{}
	d := newTestDispatcher(&subsStub{}, hub, &cacheStub{})

	d.Dispatch(context.Background(), createdEvent(42))
	d.Wait()

	topics, frames := hub.broadcasts()
	require.Len(t, topics, 1)
	assert.Equal(t, "catalog-updates", topics[0])
	assert.JSONEq(t, `{"id":42,"title":"Dune","author":"Frank Herbert"}`, string(frames[0]))
}

func TestDispatcher_Dispatch_DeletedEventCarriesOnlyID(t *testing.T) {
	t.Parallel()

	rec := &received{}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	subs := &subsStub{subs: []domain.Subscription{sub(srv.URL, domain.EventBookDeleted)}}

	d := newTestDispatcher(subs, &hubStub{}, &cacheStub{})
	d.Dispatch(context.Background(), domain.Event{Kind: domain.EventBookDeleted, BookID: 9})
	d.Wait()

	require.Equal(t, 1, rec.count())
	assert.JSONEq(t, `{"id":9}`, string(rec.bodies[0]))
	assert.Equal(t, "book.deleted", rec.events[0])
}

func TestDispatcher_Dispatch_InvalidatesCachedRecord(t *testing.T) {
	t.Parallel()

	cache := &cacheStub{}
	d := newTestDispatcher(&subsStub{}, &hubStub{}, cache)

	d.Dispatch(context.Background(), createdEvent(7))
	d.Wait()

	assert.Equal(t, []string{"cache:/v1/books/7"}, cache.deletedKeys())
}

func TestDispatcher_Dispatch_CacheFailureDoesNotStopFanout(t *testing.T) {
	t.Parallel()

	rec := &received{}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	cache := &cacheStub{err: errors.New("redis down")}
	hub := &hubStub{}
	subs := &subsStub{subs: []domain.Subscription{sub(srv.URL, domain.EventBookCreated)}}

	d := newTestDispatcher(subs, hub, cache)
	d.Dispatch(context.Background(), createdEvent(1))
	d.Wait()

	topics, _ := hub.broadcasts()
	assert.Equal(t, []string{Topic}, topics)
	assert.Equal(t, 1, rec.count())
}

func TestDispatcher_Dispatch_SurvivesCancelledRequestContext(t *testing.T) {
	t.Parallel()

	rec := &received{}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	subs := &subsStub{subs: []domain.Subscription{sub(srv.URL, domain.EventBookCreated)}}
	d := newTestDispatcher(subs, &hubStub{}, &cacheStub{})

	// The HTTP request that triggered the mutation is already done.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.Dispatch(ctx, createdEvent(1))
	d.Wait()

	assert.Equal(t, 1, rec.count())
}
