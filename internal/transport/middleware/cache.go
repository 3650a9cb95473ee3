package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/redis"
)

// responseCache is the key-value store behind the read-through middleware.
type responseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cachedResponse is the stored snapshot of a response. The body is verbatim:
// a cache hit replays exactly the bytes the wrapped handler produced.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// ReadThroughCache returns middleware that serves GET responses from the
// cache and populates it on miss. The key is derived from the full request
// target (path plus query), so distinct queries never collide.
//
// On a hit the wrapped handler is skipped entirely. On a miss the handler
// runs against a recorder; successful (2xx) responses are stored with the
// given TTL before being transmitted. Any cache failure degrades to direct
// execution: the read path never breaks because the cache is down.
func ReadThroughCache(cache responseCache, ttl time.Duration, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := redis.ResponseKey(r.URL.RequestURI())

			stored, err := cache.Get(r.Context(), key)
			if err == nil {
				var cached cachedResponse
				if jsonErr := json.Unmarshal(stored, &cached); jsonErr == nil {
					replay(w, cached)
					return
				}
				// Corrupt entry: fall through to the handler.
			} else if !errors.Is(err, redis.ErrCacheMiss) {
				logger.WarnContext(r.Context(), "cache lookup failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}

			rec := &recorder{header: make(http.Header), status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= 200 && rec.status < 300 {
				entry, marshalErr := json.Marshal(cachedResponse{
					Status:      rec.status,
					ContentType: rec.header.Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
				if marshalErr == nil {
					if setErr := cache.Set(r.Context(), key, entry, ttl); setErr != nil {
						logger.WarnContext(r.Context(), "cache store failed",
							slog.String("key", key),
							slog.String("error", setErr.Error()),
						)
					}
				}
			}

			for k, vals := range rec.header {
				for _, v := range vals {
					w.Header().Add(k, v)
				}
			}
			w.WriteHeader(rec.status)
			_, _ = w.Write(rec.body.Bytes())
		})
	}
}

func replay(w http.ResponseWriter, cached cachedResponse) {
	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(cached.Status)
	_, _ = w.Write(cached.Body)
}

// recorder buffers the wrapped handler's response so it can be stored before
// transmission.
type recorder struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(code int) { r.status = code }

func (r *recorder) Write(b []byte) (int, error) { return r.body.Write(b) }
