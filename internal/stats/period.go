package stats

import (
	"fmt"
	"time"
)

// Kind identifies a reporting period.
type Kind int

const (
	KindToday Kind = iota
	KindYesterday
	KindWeek
	KindMonth
	KindYear
	KindRange
	KindAllTime
)

func (k Kind) String() string {
	switch k {
	case KindToday:
		return "today"
	case KindYesterday:
		return "yesterday"
	case KindWeek:
		return "week"
	case KindMonth:
		return "month"
	case KindYear:
		return "year"
	case KindRange:
		return "range"
	case KindAllTime:
		return "total"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Period is a tagged reporting window. Only the fields relevant to Kind are
// read; use the constructors rather than building one by hand.
type Period struct {
	Kind Kind
	Year int

	// Month is zero for "the current month".
	Month time.Month

	// From and To are inclusive calendar dates for KindRange.
	From time.Time
	To   time.Time
}

func Today(year int) Period     { return Period{Kind: KindToday, Year: year} }
func Yesterday(year int) Period { return Period{Kind: KindYesterday, Year: year} }
func Week(year int) Period      { return Period{Kind: KindWeek, Year: year} }
func Year(year int) Period      { return Period{Kind: KindYear, Year: year} }
func AllTime() Period           { return Period{Kind: KindAllTime} }

// Month selects a calendar month. A zero month resolves to the current one.
func Month(year int, month time.Month) Period {
	return Period{Kind: KindMonth, Year: year, Month: month}
}

// Range selects every calendar day from from to to, both inclusive.
func Range(from, to time.Time) Period {
	return Period{Kind: KindRange, From: from, To: to}
}

// Bucketed reports whether the period produces a per-bucket series. Today,
// yesterday and all-time are summed into a single pair instead.
func (p Period) Bucketed() bool {
	switch p.Kind {
	case KindWeek, KindMonth, KindYear, KindRange:
		return true
	default:
		return false
	}
}

// Stacked reports whether a bar chart of this period stacks pro on contra.
// Range charts place the two series side by side.
func (p Period) Stacked() bool {
	return p.Kind != KindRange
}

// CacheKey is the transient key for this period's raw rows. Every parameter
// that changes the row set is part of the key.
func (p Period) CacheKey(now time.Time) string {
	switch p.Kind {
	case KindToday, KindYesterday, KindWeek:
		return fmt.Sprintf("helpful_%s_%d_%s", p.Kind, p.Year, now.Format("20060102"))
	case KindMonth:
		m := p.Month
		if m == 0 {
			m = now.Month()
		}
		return fmt.Sprintf("helpful_month_%d_%d", p.Year, int(m))
	case KindYear:
		return fmt.Sprintf("helpful_year_%d", p.Year)
	case KindRange:
		return fmt.Sprintf("helpful_from_%s_to_%s", p.From.Format(dayKeyLayout), p.To.Format(dayKeyLayout))
	default:
		return "helpful_total"
	}
}
