package aura

import "fmt"

type scriptRequest struct {
	Location string `json:"location"`
}

// ScriptResponse mirrors the success body of POST /api/generate-script.
type ScriptResponse struct {
	Script []string `json:"script"`
	Cached bool     `json:"cached,omitempty"`
}

// HealthResponse mirrors GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	KeyConfigured bool   `json:"keyConfigured"`
}

// Ready reports whether the service can generate scripts.
func (h HealthResponse) Ready() bool {
	return h.Status == "ok" && h.KeyConfigured
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Path       string
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}
