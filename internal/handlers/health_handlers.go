package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is implemented by the pgx pool, the cache service and document storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck is one named dependency. Critical dependencies gate readiness.
type HealthCheck struct {
	Name     string
	Pinger   Pinger
	Critical bool
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	checks    []HealthCheck
	version   string
	startedAt time.Time
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(version string, checks ...HealthCheck) *HealthHandlers {
	return &HealthHandlers{
		checks:    checks,
		version:   version,
		startedAt: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services,omitempty"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

// LivenessCheck reports that the process is up; it touches no dependency.
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	})
}

// ReadinessCheck pings every dependency. Any critical failure yields 503,
// a non-critical one only marks the service degraded.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:     "ready",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string, len(h.checks)),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	statusCode := http.StatusOK
	for _, check := range h.checks {
		if err := check.Pinger.Ping(ctx); err != nil {
			health.Services[check.Name] = "unhealthy"
			if check.Critical {
				health.Status = "not_ready"
				statusCode = http.StatusServiceUnavailable
			} else if health.Status == "ready" {
				health.Status = "degraded"
			}
			continue
		}
		health.Services[check.Name] = "healthy"
	}

	return c.JSON(statusCode, health)
}

// CheckNames lists the registered dependency names, sorted.
func (h *HealthHandlers) CheckNames() []string {
	names := make([]string, 0, len(h.checks))
	for _, check := range h.checks {
		names = append(names, check.Name)
	}
	sort.Strings(names)
	return names
}
