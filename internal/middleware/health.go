package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthChecker is one dependency probed by GET /health.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DatabaseHealthChecker pings the store with a short deadline.
type DatabaseHealthChecker struct {
	DB Pinger
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthStatus is the /health body: liveness status and a timestamp.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks,omitempty"`
}

type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func probe(ctx context.Context, checkers map[string]HealthChecker) (map[string]CheckStatus, bool) {
	out := make(map[string]CheckStatus, len(checkers))
	ok := true
	for name, c := range checkers {
		if err := c.Check(ctx); err != nil {
			out[name] = CheckStatus{Status: statusUnhealthy, Message: err.Error()}
			ok = false
			continue
		}
		out[name] = CheckStatus{Status: statusHealthy}
	}
	return out, ok
}

// HealthHandler answers 200 when every checker passes, 503 otherwise.
func HealthHandler(checkers map[string]HealthChecker, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks, ok := probe(ctx, checkers)
		body := HealthStatus{Status: statusHealthy, Timestamp: now().UTC(), Checks: checks}
		code := http.StatusOK
		if !ok {
			body.Status = statusUnhealthy
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	}
}
