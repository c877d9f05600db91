package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/pscheid92/helpful/internal/cache"
	"github.com/pscheid92/helpful/internal/chart"
	"github.com/pscheid92/helpful/internal/domain"
	"github.com/pscheid92/helpful/internal/stats"
)

// Series status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Series error messages.
const (
	MessageNoEntries   = "No entries found"
	MessageUnavailable = "Statistics are currently unavailable"
)

// Series is the response of a period endpoint: either an error status with a
// message, or a success status with the chart fields inlined.
type Series struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	*chart.Payload
}

// OK reports whether the series carries a chart.
func (s Series) OK() bool {
	return s.Status == StatusSuccess
}

func seriesError(message string) Series {
	return Series{Status: StatusError, Message: message}
}

// StatsToday charts today's pro/contra split. A zero year means the current one.
func (s *Service) StatsToday(ctx context.Context, year int) Series {
	return s.series(ctx, stats.Today(s.year(year)))
}

func (s *Service) StatsYesterday(ctx context.Context, year int) Series {
	return s.series(ctx, stats.Yesterday(s.year(year)))
}

func (s *Service) StatsWeek(ctx context.Context, year int) Series {
	return s.series(ctx, stats.Week(s.year(year)))
}

// StatsMonth charts one month day by day. A zero month means the current one.
func (s *Service) StatsMonth(ctx context.Context, year int, month time.Month) Series {
	return s.series(ctx, stats.Month(s.year(year), month))
}

func (s *Service) StatsYear(ctx context.Context, year int) Series {
	return s.series(ctx, stats.Year(s.year(year)))
}

// StatsRange charts every day from from to to, both inclusive.
func (s *Service) StatsRange(ctx context.Context, from, to time.Time) Series {
	return s.series(ctx, stats.Range(from, to))
}

// StatsTotal charts the all-time pro/contra split.
func (s *Service) StatsTotal(ctx context.Context) Series {
	return s.series(ctx, stats.AllTime())
}

func (s *Service) year(year int) int {
	if year > 0 {
		return year
	}
	return s.engine.In(s.clock.Now()).Year()
}

// tally is what summed periods cache in place of their rows.
type tally struct {
	Rows   int   `json:"rows"`
	Pro    int64 `json:"pro"`
	Contra int64 `json:"contra"`
}

func (s *Service) series(ctx context.Context, p stats.Period) Series {
	now := s.engine.In(s.clock.Now())
	if !p.Bucketed() {
		return s.doughnut(ctx, p, now)
	}

	events, err := cache.ReadThrough(ctx, s.cache, p.CacheKey(now), func(ctx context.Context) ([]domain.VoteEvent, error) {
		return s.events(ctx, p, now)
	})
	if err != nil {
		slog.ErrorContext(ctx, "Series query failed", "period", p.Kind.String(), "error", err)
		return seriesError(MessageUnavailable)
	}
	if len(events) == 0 {
		return seriesError(MessageNoEntries)
	}

	payload := chart.Bars(s.engine.Bucketize(p, now, events), p.Stacked())
	return Series{Status: StatusSuccess, Payload: &payload}
}

func (s *Service) doughnut(ctx context.Context, p stats.Period, now time.Time) Series {
	t, err := cache.ReadThrough(ctx, s.cache, p.CacheKey(now), func(ctx context.Context) (tally, error) {
		events, err := s.events(ctx, p, now)
		if err != nil {
			return tally{}, err
		}
		pro, contra := stats.Sum(events)
		return tally{Rows: len(events), Pro: pro, Contra: contra}, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "Series query failed", "period", p.Kind.String(), "error", err)
		return seriesError(MessageUnavailable)
	}
	if t.Rows == 0 {
		return seriesError(MessageNoEntries)
	}

	payload := chart.Doughnut(t.Pro, t.Contra)
	return Series{Status: StatusSuccess, Payload: &payload}
}

func (s *Service) events(ctx context.Context, p stats.Period, now time.Time) ([]domain.VoteEvent, error) {
	from, to, bounded := s.engine.Window(p, now)
	if !bounded {
		return s.votes.AllEvents(ctx)
	}
	if !to.After(from) {
		return nil, nil
	}
	return s.votes.EventsBetween(ctx, from, to)
}
