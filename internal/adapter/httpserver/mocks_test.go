package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/helpful/internal/app"
	"github.com/pscheid92/helpful/internal/content"
	"github.com/pscheid92/helpful/internal/platform/config"
	"github.com/pscheid92/helpful/internal/stats"
)

var testNow = time.Date(2024, 3, 13, 10, 30, 0, 0, time.UTC)

type mockAppService struct {
	proFn                 func(ctx context.Context, itemID int64) int64
	contraFn              func(ctx context.Context, itemID int64) int64
	proPercentageFn       func(ctx context.Context, itemID int64) stats.Percentage
	contraPercentageFn    func(ctx context.Context, itemID int64) stats.Percentage
	proAllFn              func(ctx context.Context) int64
	contraAllFn           func(ctx context.Context) int64
	proAllPercentageFn    func(ctx context.Context) stats.Percentage
	contraAllPercentageFn func(ctx context.Context) stats.Percentage

	statsTodayFn     func(ctx context.Context, year int) app.Series
	statsYesterdayFn func(ctx context.Context, year int) app.Series
	statsWeekFn      func(ctx context.Context, year int) app.Series
	statsMonthFn     func(ctx context.Context, year int, month time.Month) app.Series
	statsYearFn      func(ctx context.Context, year int) app.Series
	statsRangeFn     func(ctx context.Context, from, to time.Time) app.Series
	statsTotalFn     func(ctx context.Context) app.Series

	mostHelpfulFn    func(ctx context.Context, limit int) []content.RankedEntry
	leastHelpfulFn   func(ctx context.Context, limit int) []content.RankedEntry
	recentlyProFn    func(ctx context.Context, limit int) []content.RecentEntry
	recentlyContraFn func(ctx context.Context, limit int) []content.RecentEntry

	listYearsFn      func(ctx context.Context) []int
	invalidateItemFn func(ctx context.Context, itemID int64) error
}

var noEntries = app.Series{Status: app.StatusError, Message: app.MessageNoEntries}

func (m *mockAppService) Pro(ctx context.Context, itemID int64) int64 {
	if m.proFn != nil {
		return m.proFn(ctx, itemID)
	}
	return 0
}

func (m *mockAppService) Contra(ctx context.Context, itemID int64) int64 {
	if m.contraFn != nil {
		return m.contraFn(ctx, itemID)
	}
	return 0
}

func (m *mockAppService) ProPercentage(ctx context.Context, itemID int64) stats.Percentage {
	if m.proPercentageFn != nil {
		return m.proPercentageFn(ctx, itemID)
	}
	return stats.ZeroPercent
}

func (m *mockAppService) ContraPercentage(ctx context.Context, itemID int64) stats.Percentage {
	if m.contraPercentageFn != nil {
		return m.contraPercentageFn(ctx, itemID)
	}
	return stats.ZeroPercent
}

func (m *mockAppService) ProAll(ctx context.Context) int64 {
	if m.proAllFn != nil {
		return m.proAllFn(ctx)
	}
	return 0
}

func (m *mockAppService) ContraAll(ctx context.Context) int64 {
	if m.contraAllFn != nil {
		return m.contraAllFn(ctx)
	}
	return 0
}

func (m *mockAppService) ProAllPercentage(ctx context.Context) stats.Percentage {
	if m.proAllPercentageFn != nil {
		return m.proAllPercentageFn(ctx)
	}
	return stats.ZeroPercent
}

func (m *mockAppService) ContraAllPercentage(ctx context.Context) stats.Percentage {
	if m.contraAllPercentageFn != nil {
		return m.contraAllPercentageFn(ctx)
	}
	return stats.ZeroPercent
}

func (m *mockAppService) StatsToday(ctx context.Context, year int) app.Series {
	if m.statsTodayFn != nil {
		return m.statsTodayFn(ctx, year)
	}
	return noEntries
}

func (m *mockAppService) StatsYesterday(ctx context.Context, year int) app.Series {
	if m.statsYesterdayFn != nil {
		return m.statsYesterdayFn(ctx, year)
	}
	return noEntries
}

func (m *mockAppService) StatsWeek(ctx context.Context, year int) app.Series {
	if m.statsWeekFn != nil {
		return m.statsWeekFn(ctx, year)
	}
	return noEntries
}

func (m *mockAppService) StatsMonth(ctx context.Context, year int, month time.Month) app.Series {
	if m.statsMonthFn != nil {
		return m.statsMonthFn(ctx, year, month)
	}
	return noEntries
}

func (m *mockAppService) StatsYear(ctx context.Context, year int) app.Series {
	if m.statsYearFn != nil {
		return m.statsYearFn(ctx, year)
	}
	return noEntries
}

func (m *mockAppService) StatsRange(ctx context.Context, from, to time.Time) app.Series {
	if m.statsRangeFn != nil {
		return m.statsRangeFn(ctx, from, to)
	}
	return noEntries
}

func (m *mockAppService) StatsTotal(ctx context.Context) app.Series {
	if m.statsTotalFn != nil {
		return m.statsTotalFn(ctx)
	}
	return noEntries
}

func (m *mockAppService) MostHelpful(ctx context.Context, limit int) []content.RankedEntry {
	if m.mostHelpfulFn != nil {
		return m.mostHelpfulFn(ctx, limit)
	}
	return []content.RankedEntry{}
}

func (m *mockAppService) LeastHelpful(ctx context.Context, limit int) []content.RankedEntry {
	if m.leastHelpfulFn != nil {
		return m.leastHelpfulFn(ctx, limit)
	}
	return []content.RankedEntry{}
}

func (m *mockAppService) RecentlyPro(ctx context.Context, limit int) []content.RecentEntry {
	if m.recentlyProFn != nil {
		return m.recentlyProFn(ctx, limit)
	}
	return []content.RecentEntry{}
}

func (m *mockAppService) RecentlyContra(ctx context.Context, limit int) []content.RecentEntry {
	if m.recentlyContraFn != nil {
		return m.recentlyContraFn(ctx, limit)
	}
	return []content.RecentEntry{}
}

func (m *mockAppService) ListYears(ctx context.Context) []int {
	if m.listYearsFn != nil {
		return m.listYearsFn(ctx)
	}
	return []int{}
}

func (m *mockAppService) InvalidateItem(ctx context.Context, itemID int64) error {
	if m.invalidateItemFn != nil {
		return m.invalidateItemFn(ctx, itemID)
	}
	return nil
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
	}
}

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo:      echo.New(),
		config:    testConfig(),
		clock:     clockwork.NewFakeClockAt(testNow),
		app:       app,
		startTime: testNow,
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()
	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withConfig(cfg *config.Config) func(*Server) {
	return func(s *Server) {
		s.config = cfg
	}
}

func withMetricsHandler(h http.Handler) func(*Server) {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// serve runs a request through the full echo stack.
func serve(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}
