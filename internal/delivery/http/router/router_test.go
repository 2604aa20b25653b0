package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/speccrawl/internal/delivery/http/handler"
	"github.com/user/speccrawl/internal/delivery/http/response"
	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

type stubStatus struct {
	runs map[string]entity.RunStatus
	err  error
}

func (s stubStatus) Snapshot() entity.RunStatus { return s.runs[""] }

func (s stubStatus) Lookup(_ context.Context, runID string) (*entity.RunStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	st, ok := s.runs[runID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, h *handler.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	New(h, zap.NewNop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRunStatus(t *testing.T) {
	current := entity.RunStatus{RunID: "abc", Total: 5, Index: 2, CurrentLabel: "Pixel 3", State: entity.StateFetching, Succeeded: 1, Failed: 1}
	status := stubStatus{runs: map[string]entity.RunStatus{"": current, "abc": current}}
	h := handler.NewHandler(status, nil, zap.NewNop())

	rec := serve(t, h, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp response.RunStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "abc", resp.RunID)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, "Pixel 3", resp.CurrentLabel)
	assert.Equal(t, string(entity.StateFetching), resp.State)

	rec = serve(t, h, "/api/status?run_id=abc")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, h, "/api/status?run_id=zzz")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunStatusStoreError(t *testing.T) {
	h := handler.NewHandler(stubStatus{err: errors.New("redis down")}, nil, zap.NewNop())

	rec := serve(t, h, "/api/status")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		backends map[string]handler.Pinger
		wantCode int
		want     response.HealthResponse
	}{
		{
			name:     "no backends",
			wantCode: http.StatusOK,
			want:     response.HealthResponse{Status: "ok"},
		},
		{
			name:     "all healthy",
			backends: map[string]handler.Pinger{"postgres": stubPinger{}, "redis": stubPinger{}},
			wantCode: http.StatusOK,
			want:     response.HealthResponse{Status: "ok", Backends: map[string]string{"postgres": "healthy", "redis": "healthy"}},
		},
		{
			name:     "redis down",
			backends: map[string]handler.Pinger{"postgres": stubPinger{}, "redis": stubPinger{err: errors.New("refused")}},
			wantCode: http.StatusServiceUnavailable,
			want:     response.HealthResponse{Status: "degraded", Backends: map[string]string{"postgres": "healthy", "redis": "unhealthy"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHandler(stubStatus{}, tt.backends, zap.NewNop())
			rec := serve(t, h, "/api/health")
			assert.Equal(t, tt.wantCode, rec.Code)

			var got response.HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := handler.NewHandler(stubStatus{}, nil, zap.NewNop())

	serve(t, h, "/api/health")
	rec := serve(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
