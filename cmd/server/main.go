// Command server runs the bookshelf HTTP API: REST and GraphQL catalog
// endpoints, the WebSocket update feed, and the report job consumer.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/bookshelf-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
