package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/helpful/internal/adapter/metrics"
	"github.com/pscheid92/helpful/internal/app"
	"github.com/pscheid92/helpful/internal/content"
	"github.com/pscheid92/helpful/internal/platform/config"
	"github.com/pscheid92/helpful/internal/stats"
)

type appService interface {
	Pro(ctx context.Context, itemID int64) int64
	Contra(ctx context.Context, itemID int64) int64
	ProPercentage(ctx context.Context, itemID int64) stats.Percentage
	ContraPercentage(ctx context.Context, itemID int64) stats.Percentage
	ProAll(ctx context.Context) int64
	ContraAll(ctx context.Context) int64
	ProAllPercentage(ctx context.Context) stats.Percentage
	ContraAllPercentage(ctx context.Context) stats.Percentage

	StatsToday(ctx context.Context, year int) app.Series
	StatsYesterday(ctx context.Context, year int) app.Series
	StatsWeek(ctx context.Context, year int) app.Series
	StatsMonth(ctx context.Context, year int, month time.Month) app.Series
	StatsYear(ctx context.Context, year int) app.Series
	StatsRange(ctx context.Context, from, to time.Time) app.Series
	StatsTotal(ctx context.Context) app.Series

	MostHelpful(ctx context.Context, limit int) []content.RankedEntry
	LeastHelpful(ctx context.Context, limit int) []content.RankedEntry
	RecentlyPro(ctx context.Context, limit int) []content.RecentEntry
	RecentlyContra(ctx context.Context, limit int) []content.RecentEntry

	ListYears(ctx context.Context) []int
	InvalidateItem(ctx context.Context, itemID int64) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	clock  clockwork.Clock

	app            appService
	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler
	healthChecks   []HealthCheck
	startTime      time.Time
}

// NewServer wires the routes. httpMetrics and metricsHandler may be nil.
func NewServer(cfg *config.Config, app appService, clock clockwork.Clock, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		clock:          clock,
		app:            app,
		httpMetrics:    httpMetrics,
		metricsHandler: metricsHandler,
		healthChecks:   healthChecks,
		startTime:      clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) getBaseURL(c echo.Context) string {
	scheme := "http"
	if c.Request().TLS != nil {
		scheme = "https"
	}
	if fwdProto := c.Request().Header.Get("X-Forwarded-Proto"); fwdProto == "http" || fwdProto == "https" {
		scheme = fwdProto
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request().Host)
}
