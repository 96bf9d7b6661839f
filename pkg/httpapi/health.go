package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports whether a dependency is usable.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to functions.
type Checks map[string]CheckFunc

// HealthResponse is the readiness body.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) liveness(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, HealthResponse{Status: StatusHealthy})
	return nil
}

func (s *Server) readiness(w http.ResponseWriter, r *http.Request) error {
	resp := runChecks(r.Context(), s.checks, s.checkTimeout, s.logger)
	status := http.StatusOK
	if resp.Status != StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
	return nil
}

// runChecks runs every check in parallel under one timeout.
func runChecks(ctx context.Context, checks Checks, timeout time.Duration, log *slog.Logger) HealthResponse {
	if len(checks) == 0 {
		return HealthResponse{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]CheckResult, len(checks))
		healthy = true
	)
	for name, check := range checks {
		wg.Go(func() {
			res := CheckResult{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				res = CheckResult{Status: StatusUnhealthy, Error: err.Error()}
				log.WarnContext(ctx, "health check failed", slog.String("check", name), slog.String("error", err.Error()))
			}
			mu.Lock()
			defer mu.Unlock()
			results[name] = res
			if res.Status != StatusHealthy {
				healthy = false
			}
		})
	}
	wg.Wait()

	status := StatusHealthy
	if !healthy {
		status = StatusUnhealthy
	}
	return HealthResponse{Status: status, Checks: results}
}
