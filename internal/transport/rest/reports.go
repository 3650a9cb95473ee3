package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// reportPublisher defines the minimal interface needed by ReportsHandler.
type reportPublisher interface {
	RequestReport(ctx context.Context) (domain.ReportJob, error)
}

// ReportsHandler serves the report trigger endpoint.
type ReportsHandler struct {
	publisher reportPublisher
	log       *slog.Logger
}

// NewReportsHandler creates a ReportsHandler.
func NewReportsHandler(publisher reportPublisher, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{publisher: publisher, log: logger.With("handler", "reports")}
}

// Request handles POST /v1/reports: enqueues a report job and responds 202.
func (h *ReportsHandler) Request(w http.ResponseWriter, r *http.Request) {
	job, err := h.publisher.RequestReport(r.Context())
	if err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": job.ID})
}
