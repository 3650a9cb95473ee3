package graphql

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/heartmarshall/bookshelf-backend/internal/transport/middleware"
)

// Handler serves the /graphql endpoint. The whole surface is restricted to
// privileged callers, matching the REST write endpoints.
type Handler struct {
	schema graphql.Schema
	log    *slog.Logger
}

// NewHandler creates a Handler over the given schema.
func NewHandler(schema graphql.Schema, logger *slog.Logger) *Handler {
	return &Handler{schema: schema, log: logger.With("handler", "graphql")}
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := middleware.RequireAdmin(r.Context()); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	for _, gqlErr := range result.Errors {
		h.log.WarnContext(r.Context(), "graphql error", slog.String("message", gqlErr.Message))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.log.ErrorContext(r.Context(), "encode graphql response", slog.String("error", err.Error()))
	}
}
