package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/helpful/internal/platform/version"
)

const (
	startupProbeTimeout   = 2 * time.Second
	readinessProbeTimeout = 5 * time.Second
)

// Names of the backing stores the probes check.
const (
	CheckDatabase       = "database"
	CheckTransientStore = "transient_store"
)

const checkOK = "ok"

// HealthCheck probes one backing store.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type probeResponse struct {
	Service string            `json:"service"`
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/startup", s.handleStartup)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleStartup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), startupProbeTimeout)
	defer cancel()

	return s.probeStores(c, ctx)
}

// handleLiveness reports uptime without touching any store.
func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"service": version.Service,
		"status":  "ok",
		"uptime":  s.clock.Since(s.startTime).Seconds(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	return s.probeStores(c, ctx)
}

// probeStores runs every check and reports each result by check name.
func (s *Server) probeStores(c echo.Context, ctx context.Context) error {
	response := probeResponse{Service: version.Service, Status: "ready"}
	status := http.StatusOK

	if len(s.healthChecks) > 0 {
		response.Checks = make(map[string]string, len(s.healthChecks))
	}
	for _, hc := range s.healthChecks {
		if err := hc.Check(ctx); err != nil {
			slog.WarnContext(ctx, "Store probe failed", "check", hc.Name, "error", err)
			response.Checks[hc.Name] = err.Error()
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[hc.Name] = checkOK
	}

	if err := c.JSON(status, response); err != nil {
		return fmt.Errorf("failed to send probe response: %w", err)
	}
	return nil
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
