package stats

import "slices"

// Candidate is one item considered for a ranking, in encounter order.
type Candidate struct {
	ItemID int64
	Pro    int64
	Contra int64
}

// RankedItem is a ranking row. Score is the value the list was sorted by.
type RankedItem struct {
	ItemID     int64      `json:"id"`
	Pro        int64      `json:"pro"`
	Contra     int64      `json:"contra"`
	Score      int64      `json:"score"`
	Percentage Percentage `json:"percentage"`
}

// MostHelpful ranks candidates by pro minus contra. See rank for the
// slicing and exclusion rules. The percentage is the pro share.
func MostHelpful(candidates []Candidate, limit int) []RankedItem {
	return rank(candidates, limit,
		func(c Candidate) int64 { return NetScore(c.Pro, c.Contra) },
		func(c Candidate) Percentage { return ShareOf(SidePro, c.Pro, c.Contra) },
	)
}

// LeastHelpful ranks candidates by contra minus pro. The percentage reported
// is still the pro share, except for items with only contra votes, which
// report zero.
func LeastHelpful(candidates []Candidate, limit int) []RankedItem {
	return rank(candidates, limit,
		func(c Candidate) int64 { return NetScore(c.Contra, c.Pro) },
		func(c Candidate) Percentage {
			total := c.Pro + c.Contra
			if total > 0 && c.Contra == total {
				return ZeroPercent
			}
			return ShareOf(SidePro, c.Pro, c.Contra)
		},
	)
}

// rank needs at least two candidates. It sorts by score descending, keeping
// encounter order on ties, takes the first limit entries and only then drops
// zero scores, so a zero inside the window shortens the result.
func rank(candidates []Candidate, limit int, score func(Candidate) int64, percent func(Candidate) Percentage) []RankedItem {
	if len(candidates) < 2 || limit <= 0 {
		return []RankedItem{}
	}

	items := make([]RankedItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, RankedItem{
			ItemID:     c.ItemID,
			Pro:        c.Pro,
			Contra:     c.Contra,
			Score:      score(c),
			Percentage: percent(c),
		})
	}

	slices.SortStableFunc(items, func(a, b RankedItem) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(items) > limit {
		items = items[:limit]
	}

	result := make([]RankedItem, 0, len(items))
	for _, it := range items {
		if it.Score == 0 {
			continue
		}
		result = append(result, it)
	}
	return result
}
