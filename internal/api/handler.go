package api

import (
	"context"
	"log/slog"
	"net/http"
)

// DocumentGenerator produces a design document for a requirement. The
// result is always a document string; failures arrive as prose.
type DocumentGenerator interface {
	GenerateDesignDocument(ctx context.Context, userInput string) string
}

// Config wires dependencies for the HTTP handler.
type Config struct {
	Generator DocumentGenerator
	Logger    *slog.Logger
}

// NewHandler builds the HTTP handler for the design service API.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{
		generator: cfg.Generator,
		logger:    logger,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/v1/design", h.handleDesign)
	return withRequestID(logger, mux)
}

type handler struct {
	generator DocumentGenerator
	logger    *slog.Logger
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
