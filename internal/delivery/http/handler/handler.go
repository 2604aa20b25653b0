package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/speccrawl/internal/delivery/http/response"
	"github.com/user/speccrawl/internal/repository"
	"github.com/user/speccrawl/internal/usecase"
)

// Pinger is implemented by the optional storage backends.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	status   usecase.StatusProvider
	backends map[string]Pinger
	logger   *zap.Logger
}

// NewHandler creates the status API handler. backends maps a display name to a health probe.
func NewHandler(status usecase.StatusProvider, backends map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		status:   status,
		backends: backends,
		logger:   logger,
	}
}

func (h *Handler) HandleGetRunStatus(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")

	status, err := h.status.Lookup(r.Context(), runID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "Run status not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get run status", zap.String("run_id", runID), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.RunStatusResponse{
		RunID:        status.RunID,
		Total:        status.Total,
		Processed:    status.Succeeded + status.Failed,
		Succeeded:    status.Succeeded,
		Failed:       status.Failed,
		CurrentLabel: status.CurrentLabel,
		State:        string(status.State),
		StartedAt:    status.StartedAt,
		UpdatedAt:    status.UpdatedAt,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok"}
	if len(h.backends) > 0 {
		resp.Backends = make(map[string]string, len(h.backends))
	}
	for name, p := range h.backends {
		if err := p.Ping(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("backend", name), zap.Error(err))
			resp.Backends[name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Backends[name] = "healthy"
	}

	if resp.Status != "ok" {
		h.writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
