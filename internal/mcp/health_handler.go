package mcp

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

const serviceName = "mockinterview-mcp"

// HealthResponse represents the JSON response for health endpoints
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// LivenessHandler always returns 200 OK while the process serves requests
func (s *Server) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.logger.DebugContext(ctx, "liveness check requested")

	s.writeHealth(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
		Version:   Version,
	})
}

// ReadinessHandler returns 200 OK if storage is accessible, 503 if not
func (s *Server) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.logger.DebugContext(ctx, "readiness check requested")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
		Version:   Version,
		Checks:    make(map[string]string),
	}
	if s.app != nil && s.app.Sessions != nil {
		response.Details = map[string]string{
			"sessions": strconv.Itoa(s.app.Sessions.Len()),
		}
	}

	if s.app != nil && s.app.Storage != nil && s.app.Storage.IsAccessible() {
		response.Checks["storage"] = "accessible"
		s.writeHealth(w, http.StatusOK, response)
		s.logger.DebugContext(ctx, "readiness check completed", "status", "healthy", "storage", "accessible")
		return
	}

	response.Status = "unhealthy"
	response.Checks["storage"] = "inaccessible"
	s.writeHealth(w, http.StatusServiceUnavailable, response)
	s.logger.ErrorContext(ctx, "readiness check failed", "status", "unhealthy", "storage", "inaccessible")
}

func (s *Server) writeHealth(w http.ResponseWriter, status int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Warn("failed to write health response", "error", err)
	}
}
