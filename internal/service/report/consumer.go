// Package report materializes catalog snapshots in response to queued
// report jobs, and enqueues new jobs on request.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

type catalogSnapshotter interface {
	ListAll(ctx context.Context) ([]domain.Book, error)
}

type jobSource interface {
	Consume(ctx context.Context) (<-chan amqp.Delivery, error)
}

// Consumer is the long-lived worker that drains the report queue and writes
// one artifact file per job.
type Consumer struct {
	books catalogSnapshotter
	queue jobSource
	dir   string
	log   *slog.Logger
}

// NewConsumer creates a Consumer writing artifacts into dir.
func NewConsumer(log *slog.Logger, books catalogSnapshotter, queue jobSource, dir string) *Consumer {
	return &Consumer{
		books: books,
		queue: queue,
		dir:   dir,
		log:   log.With("service", "report"),
	}
}

// Run consumes jobs until the context is cancelled or the delivery channel
// closes. A processing failure is logged and the job is acked anyway: there
// is no negative-acknowledgement or retry path.
func (c *Consumer) Run(ctx context.Context) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	deliveries, err := c.queue.Consume(ctx)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.log.InfoContext(ctx, "report consumer started", slog.String("artifact_dir", c.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			jobID := c.Process(ctx, d.Body, d.MessageId)

			if err := d.Ack(false); err != nil {
				c.log.ErrorContext(ctx, "ack failed",
					slog.String("job_id", jobID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Process handles one job: snapshot the catalog and write the artifact.
// It returns the resolved job id and never fails the job; errors are logged
// and swallowed.
func (c *Consumer) Process(ctx context.Context, body []byte, messageID string) string {
	jobID := resolveJobID(body, messageID)
	log := c.log.With(slog.String("job_id", jobID))

	books, err := c.books.ListAll(ctx)
	if err != nil {
		log.ErrorContext(ctx, "snapshot catalog failed", slog.String("error", err.Error()))
		return jobID
	}

	artifact, err := json.MarshalIndent(toArtifact(books), "", "  ")
	if err != nil {
		log.ErrorContext(ctx, "serialize snapshot failed", slog.String("error", err.Error()))
		return jobID
	}

	path := filepath.Join(c.dir, ArtifactName(jobID))
	if err := os.WriteFile(path, artifact, 0o644); err != nil {
		log.ErrorContext(ctx, "write artifact failed", slog.String("error", err.Error()))
		return jobID
	}

	log.InfoContext(ctx, "report generated",
		slog.String("path", path),
		slog.Int("books", len(books)),
	)
	return jobID
}

// ArtifactName returns the artifact file name for a job id.
func ArtifactName(jobID string) string {
	return "report-" + jobID + ".json"
}

// resolveJobID extracts the job id from the message body, falling back to the
// AMQP message id, then to a fresh id.
func resolveJobID(body []byte, messageID string) string {
	var job domain.ReportJob
	if err := json.Unmarshal(body, &job); err == nil && job.ID != "" {
		return job.ID
	}
	if messageID != "" {
		return messageID
	}
	return uuid.NewString()
}

// artifactBook is the serialized shape of one record in a snapshot.
type artifactBook struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	CoverImage *string `json:"cover_image"`
}

func toArtifact(books []domain.Book) []artifactBook {
	out := make([]artifactBook, len(books))
	for i, b := range books {
		out[i] = artifactBook{
			ID:         b.ID,
			Title:      b.Title,
			Author:     b.Author,
			CoverImage: b.CoverImage,
		}
	}
	return out
}
