package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"signalist/internal/handler/http/respond"
)

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus reports the result of a single health check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler serves GET /health with a database connectivity check.
type HealthHandler struct {
	DB      *sql.DB
	Version string
}

// ServeHTTP pings the database and reports overall health. Returns 200
// when healthy and 503 when any check fails.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]CheckStatus{},
		Version:   h.Version,
	}

	resp.Checks["database"] = h.checkDatabase(r.Context())

	code := http.StatusOK
	for _, check := range resp.Checks {
		if check.Status != "healthy" {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
			break
		}
	}

	respond.JSON(w, code, resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: "unhealthy", Message: "database not configured"}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(pingCtx); err != nil {
		return CheckStatus{Status: "unhealthy", Message: "database ping failed"}
	}
	return CheckStatus{Status: "healthy"}
}
