package stats

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percentage carries a rounded percentage both as a number and in its
// display form, where a whole value drops its ".00" suffix ("50", "66.67").
type Percentage struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// ZeroPercent is returned whenever a percentage is undefined or zero.
var ZeroPercent = Percentage{Value: 0, Display: "0"}

// Percent returns part/whole*100 rounded half away from zero to two places.
// A zero part or zero whole yields ZeroPercent.
func Percent(part, whole int64) Percentage {
	if part == 0 || whole == 0 {
		return ZeroPercent
	}

	d := decimal.NewFromInt(part).Mul(hundred).DivRound(decimal.NewFromInt(whole), 8).Round(2)
	value, _ := d.Float64()
	return Percentage{
		Value:   value,
		Display: strings.TrimSuffix(d.StringFixed(2), ".00"),
	}
}

// NetScore is pro minus contra.
func NetScore(pro, contra int64) int64 {
	return pro - contra
}

// ShareOf returns the pro or contra share of an item's total votes.
func ShareOf(kind Side, pro, contra int64) Percentage {
	if kind == SideContra {
		return Percent(contra, pro+contra)
	}
	return Percent(pro, pro+contra)
}

// Recency is the signed net share used by the recent-vote lists:
// (pro-contra)/total for the pro side and (contra-pro)/total for contra.
func Recency(kind Side, pro, contra int64) Percentage {
	total := pro + contra
	if kind == SideContra {
		return Percent(contra-pro, total)
	}
	return Percent(pro-contra, total)
}

// Side selects the pro or contra perspective of a calculation.
type Side int

const (
	SidePro Side = iota
	SideContra
)
