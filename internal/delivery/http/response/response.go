package response

import "time"

// RunStatusResponse is the DTO for /api/status, mirroring entity.RunStatus.
type RunStatusResponse struct {
	RunID        string    `json:"run_id"`
	Total        int       `json:"total"`
	Processed    int       `json:"processed"`
	Succeeded    int       `json:"succeeded"`
	Failed       int       `json:"failed"`
	CurrentLabel string    `json:"current_label,omitempty"`
	State        string    `json:"state"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HealthResponse reports the state of every optional backend.
type HealthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends,omitempty"`
}
