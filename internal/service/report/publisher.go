package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

type jobPublisher interface {
	PublishReportJob(ctx context.Context, job domain.ReportJob) error
}

// Publisher enqueues report generation requests.
type Publisher struct {
	queue jobPublisher
	log   *slog.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(log *slog.Logger, queue jobPublisher) *Publisher {
	return &Publisher{
		queue: queue,
		log:   log.With("service", "report"),
	}
}

// RequestReport enqueues a new report job and returns it.
func (p *Publisher) RequestReport(ctx context.Context) (domain.ReportJob, error) {
	job := domain.ReportJob{ID: uuid.NewString()}

	if err := p.queue.PublishReportJob(ctx, job); err != nil {
		return domain.ReportJob{}, fmt.Errorf("enqueue report job: %w", err)
	}

	p.log.InfoContext(ctx, "report job enqueued", slog.String("job_id", job.ID))
	return job, nil
}
