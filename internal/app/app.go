// Package app wires configuration, adapters, services, and transports
// together and runs the HTTP server until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres"
	bookrepo "github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres/book"
	webhookrepo "github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres/webhook"
	"github.com/heartmarshall/bookshelf-backend/internal/adapter/rabbitmq"
	"github.com/heartmarshall/bookshelf-backend/internal/adapter/redis"
	"github.com/heartmarshall/bookshelf-backend/internal/auth"
	"github.com/heartmarshall/bookshelf-backend/internal/config"
	"github.com/heartmarshall/bookshelf-backend/internal/service/catalog"
	"github.com/heartmarshall/bookshelf-backend/internal/service/fanout"
	"github.com/heartmarshall/bookshelf-backend/internal/service/report"
	"github.com/heartmarshall/bookshelf-backend/internal/service/webhook"
	"github.com/heartmarshall/bookshelf-backend/internal/transport/graphql"
	"github.com/heartmarshall/bookshelf-backend/internal/transport/middleware"
	"github.com/heartmarshall/bookshelf-backend/internal/transport/rest"
	"github.com/heartmarshall/bookshelf-backend/internal/transport/ws"
)

// Run is the application entry point. It loads configuration, connects to
// the database, cache, and queue, builds the services, and serves HTTP until
// ctx is cancelled, then shuts everything down in reverse order.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	cache, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer cache.Close()

	queue, err := rabbitmq.New(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	defer queue.Close()

	// Background workers share a context that outlives in-flight HTTP
	// requests but is cancelled during shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	hub := ws.NewHub(logger)
	go hub.Run(workerCtx)

	books := bookrepo.New(pool)
	subs := webhookrepo.New(pool)

	webhookSvc := webhook.NewService(logger, subs)
	dispatcher := fanout.NewDispatcher(logger, webhookSvc, hub, cache, cfg.Webhook.DeliveryTimeout)
	catalogSvc := catalog.NewService(logger, books, dispatcher)
	reportPub := report.NewPublisher(logger, queue)

	consumer := report.NewConsumer(logger, books, queue, cfg.Report.ArtifactDir)
	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- consumer.Run(workerCtx)
	}()

	schema, err := graphql.NewSchema(catalogSvc)
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}
	gqlHandler := graphql.NewHandler(schema, logger)

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	mux := buildMux(cfg, logger, catalogSvc, webhookSvc, reportPub, gqlHandler, hub, pool, cache)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.RateLimit.MaxPerMinute),
		middleware.Auth(verifier),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", slog.String("error", err.Error()))
	}

	// Let in-flight webhook deliveries finish before tearing down adapters.
	dispatcher.Wait()

	stopWorkers()
	select {
	case err := <-consumerDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("report consumer stopped", slog.String("error", err.Error()))
		}
	case <-time.After(5 * time.Second):
		logger.Warn("report consumer did not stop in time")
	}

	logger.Info("application stopped")
	return nil
}

func buildMux(
	cfg *config.Config,
	logger *slog.Logger,
	catalogSvc *catalog.Service,
	webhookSvc *webhook.Service,
	reportPub *report.Publisher,
	gqlHandler *graphql.Handler,
	hub *ws.Hub,
	db *pgxpool.Pool,
	cache *redis.Cache,
) *http.ServeMux {
	booksHandler := rest.NewBooksHandler(catalogSvc, logger)
	webhooksHandler := rest.NewWebhooksHandler(webhookSvc, logger)
	reportsHandler := rest.NewReportsHandler(reportPub, logger)
	healthHandler := rest.NewHealthHandler(db, cache, BuildVersion())

	cached := middleware.ReadThroughCache(cache, cfg.Cache.TTL, logger)

	mux := http.NewServeMux()

	mux.Handle("GET /v1/books", cached(http.HandlerFunc(booksHandler.List)))
	mux.Handle("GET /v1/books/{id}", cached(http.HandlerFunc(booksHandler.Get)))
	mux.Handle("POST /v1/books", middleware.AdminOnly(http.HandlerFunc(booksHandler.Create)))
	mux.Handle("PUT /v1/books/{id}", middleware.AdminOnly(http.HandlerFunc(booksHandler.Update)))
	mux.Handle("DELETE /v1/books/{id}", middleware.AdminOnly(http.HandlerFunc(booksHandler.Delete)))

	mux.Handle("POST /v1/webhooks", middleware.AdminOnly(http.HandlerFunc(webhooksHandler.Register)))
	mux.Handle("GET /v1/webhooks", middleware.AdminOnly(http.HandlerFunc(webhooksHandler.List)))
	mux.Handle("DELETE /v1/webhooks/{id}", middleware.AdminOnly(http.HandlerFunc(webhooksHandler.Unregister)))

	mux.Handle("POST /v1/reports", middleware.Authenticated(http.HandlerFunc(reportsHandler.Request)))

	mux.Handle("/graphql", gqlHandler)
	mux.HandleFunc("GET /ws", ws.Handler(hub))
	mux.HandleFunc("GET /health", healthHandler.Health)

	return mux
}
