package stats

import (
	"time"

	"github.com/pscheid92/helpful/internal/domain"
)

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "Jan"
)

// Granularity is the calendar unit of one bucket.
type Granularity int

const (
	GranularityNone Granularity = iota
	GranularityDaily
	GranularityMonthly
)

// Bucket is one calendar slot of a series.
type Bucket struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Pro    int64  `json:"pro"`
	Contra int64  `json:"contra"`
}

// Layout is the resolved bucket plan of a period: Count buckets of
// Granularity starting at Anchor.
type Layout struct {
	Granularity Granularity
	Anchor      time.Time
	Count       int
	LabelFormat string
}

// Engine resolves periods against a clock reading and folds events into
// buckets. The zero value buckets in UTC and keeps the month layout one day
// short of the calendar month.
type Engine struct {
	Location *time.Location

	// IncludeLastDayOfMonth emits a bucket for the final day of the month.
	// Off by default to match existing month charts.
	IncludeLastDayOfMonth bool
}

func NewEngine(loc *time.Location, includeLastDayOfMonth bool) *Engine {
	return &Engine{Location: loc, IncludeLastDayOfMonth: includeLastDayOfMonth}
}

func (e *Engine) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// In converts t to the engine's location.
func (e *Engine) In(t time.Time) time.Time {
	return t.In(e.location())
}

func (e *Engine) midnight(t time.Time) time.Time {
	t = t.In(e.location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.location())
}

func (e *Engine) monday(t time.Time) time.Time {
	d := e.midnight(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// weekAnchor is the Monday of the current week, or of the same ISO week
// number when year is not the current year.
func (e *Engine) weekAnchor(year int, now time.Time) time.Time {
	now = now.In(e.location())
	if year == now.Year() {
		return e.monday(now)
	}
	_, week := now.ISOWeek()
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, e.location())
	return e.monday(jan4).AddDate(0, 0, 7*(week-1))
}

func (e *Engine) monthAnchor(p Period, now time.Time) time.Time {
	m := p.Month
	if m == 0 {
		m = now.In(e.location()).Month()
	}
	return time.Date(p.Year, m, 1, 0, 0, 0, 0, e.location())
}

// daysBetween counts calendar days from a to b by their dates alone, so DST
// shifts and spans beyond time.Duration's range count correctly.
func daysBetween(a, b time.Time) int {
	return int((civilDay(b) - civilDay(a)) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func civilDay(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

// Layout returns the bucket plan of p. Summed periods return a Layout with
// GranularityNone and no buckets.
func (e *Engine) Layout(p Period, now time.Time) Layout {
	switch p.Kind {
	case KindWeek:
		return Layout{Granularity: GranularityDaily, Anchor: e.weekAnchor(p.Year, now), Count: 7, LabelFormat: "Mon"}
	case KindMonth:
		anchor := e.monthAnchor(p, now)
		days := anchor.AddDate(0, 1, -1).Day()
		if !e.IncludeLastDayOfMonth {
			days--
		}
		return Layout{Granularity: GranularityDaily, Anchor: anchor, Count: days, LabelFormat: "2 Jan"}
	case KindYear:
		anchor := time.Date(p.Year, time.January, 1, 0, 0, 0, 0, e.location())
		return Layout{Granularity: GranularityMonthly, Anchor: anchor, Count: 12, LabelFormat: "Jan"}
	case KindRange:
		from, to := e.midnight(p.From), e.midnight(p.To)
		n := daysBetween(from, to)
		if n < 0 {
			n = -n
		}
		return Layout{Granularity: GranularityDaily, Anchor: from, Count: n + 1, LabelFormat: "2 Jan"}
	default:
		return Layout{Granularity: GranularityNone}
	}
}

// Window returns the half-open interval [from, to) of rows the period reads.
// ok is false for the unbounded all-time period. An empty interval (from ==
// to) means the period cannot match any row.
func (e *Engine) Window(p Period, now time.Time) (from, to time.Time, ok bool) {
	loc := e.location()
	now = now.In(loc)
	yearStart := time.Date(p.Year, time.January, 1, 0, 0, 0, 0, loc)
	yearEnd := yearStart.AddDate(1, 0, 0)

	switch p.Kind {
	case KindToday, KindYesterday:
		ref := e.midnight(now)
		if p.Kind == KindYesterday {
			ref = ref.AddDate(0, 0, -1)
		}
		day := time.Date(p.Year, time.January, ref.YearDay(), 0, 0, 0, 0, loc)
		if day.Year() != p.Year {
			return yearEnd, yearEnd, true
		}
		return day, day.AddDate(0, 0, 1), true
	case KindWeek:
		start := e.weekAnchor(p.Year, now)
		return clip(start, start.AddDate(0, 0, 7), yearStart, yearEnd)
	case KindMonth:
		start := e.monthAnchor(p, now)
		return start, start.AddDate(0, 1, 0), true
	case KindYear:
		return yearStart, yearEnd, true
	case KindRange:
		start, end := e.midnight(p.From), e.midnight(p.To)
		if end.Before(start) {
			return start, start, true
		}
		return start, end.AddDate(0, 0, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func clip(from, to, lo, hi time.Time) (time.Time, time.Time, bool) {
	if from.Before(lo) {
		from = lo
	}
	if to.After(hi) {
		to = hi
	}
	if !to.After(from) {
		return from, from, true
	}
	return from, to, true
}

// keyOf is the canonical bucket key of t at granularity g.
func (e *Engine) keyOf(t time.Time, g Granularity) string {
	t = t.In(e.location())
	if g == GranularityMonthly {
		return t.Format(monthKeyLayout)
	}
	return t.Format(dayKeyLayout)
}

// Buckets generates the zero-filled buckets of p in chronological order.
func (e *Engine) Buckets(p Period, now time.Time) []Bucket {
	layout := e.Layout(p, now)
	if layout.Granularity == GranularityNone {
		return nil
	}

	buckets := make([]Bucket, 0, layout.Count)
	for i := range layout.Count {
		var t time.Time
		if layout.Granularity == GranularityMonthly {
			t = layout.Anchor.AddDate(0, i, 0)
		} else {
			t = layout.Anchor.AddDate(0, 0, i)
		}
		buckets = append(buckets, Bucket{
			Key:   e.keyOf(t, layout.Granularity),
			Label: t.Format(layout.LabelFormat),
		})
	}
	return buckets
}

// Bucketize generates the buckets of p and folds events into them by exact
// key match. Events that match no bucket are dropped. Pro and contra are
// added independently, so rows with both or neither flag set are harmless.
func (e *Engine) Bucketize(p Period, now time.Time, events []domain.VoteEvent) []Bucket {
	buckets := e.Buckets(p, now)
	if len(buckets) == 0 {
		return buckets
	}

	layout := e.Layout(p, now)
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.Key] = i
	}

	for _, ev := range events {
		i, ok := index[e.keyOf(ev.OccurredAt, layout.Granularity)]
		if !ok {
			continue
		}
		buckets[i].Pro += ev.Pro
		buckets[i].Contra += ev.Contra
	}
	return buckets
}

// Sum totals pro and contra across events.
func Sum(events []domain.VoteEvent) (pro, contra int64) {
	for _, ev := range events {
		pro += ev.Pro
		contra += ev.Contra
	}
	return pro, contra
}
