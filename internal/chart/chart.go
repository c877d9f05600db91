// Package chart assembles Chart.js configuration objects from vote totals.
// It only describes data and styling; nothing here renders.
package chart

import (
	"encoding/json"
	"fmt"

	"github.com/pscheid92/helpful/internal/stats"
)

type Type string

const (
	TypeDoughnut Type = "doughnut"
	TypeBar      Type = "bar"
)

// Pro is always drawn green and first, contra red and second.
const (
	ColorPro    = "#88c057"
	ColorContra = "#ed7161"

	LabelPro    = "Pro"
	LabelContra = "Contra"
)

// Colors marshals as a bare string when it holds one color, which is how
// Chart.js expects a single-color bar dataset.
type Colors []string

func (c Colors) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

func (c *Colors) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*c = Colors{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("colors: %w", err)
	}
	*c = many
	return nil
}

type Dataset struct {
	Label           string  `json:"label,omitempty"`
	Data            []int64 `json:"data"`
	BackgroundColor Colors  `json:"backgroundColor"`
}

type Data struct {
	Datasets []Dataset `json:"datasets"`
	Labels   []string  `json:"labels"`
}

type Axis struct {
	Stacked bool `json:"stacked"`
}

type Scales struct {
	XAxes []Axis `json:"xAxes"`
	YAxes []Axis `json:"yAxes"`
}

type Legend struct {
	Position string `json:"position"`
}

type Options struct {
	Scales *Scales `json:"scales,omitempty"`
	Legend Legend  `json:"legend"`
}

// Payload is a complete Chart.js config.
type Payload struct {
	Type    Type    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Build assembles a payload. Dataset order is kept as given.
func Build(t Type, datasets []Dataset, labels []string, stacked bool) Payload {
	p := Payload{
		Type: t,
		Data: Data{
			Datasets: datasets,
			Labels:   labels,
		},
		Options: Options{Legend: Legend{Position: "bottom"}},
	}
	if stacked {
		p.Options.Scales = &Scales{
			XAxes: []Axis{{Stacked: true}},
			YAxes: []Axis{{Stacked: true}},
		}
	}
	return p
}

// Doughnut charts a single pro/contra pair.
func Doughnut(pro, contra int64) Payload {
	return Build(TypeDoughnut,
		[]Dataset{{
			Data:            []int64{abs(pro), abs(contra)},
			BackgroundColor: Colors{ColorPro, ColorContra},
		}},
		[]string{LabelPro, LabelContra},
		false,
	)
}

// Bars charts a bucket series as one pro and one contra dataset.
func Bars(buckets []stats.Bucket, stacked bool) Payload {
	pro := make([]int64, 0, len(buckets))
	contra := make([]int64, 0, len(buckets))
	labels := make([]string, 0, len(buckets))
	for _, b := range buckets {
		pro = append(pro, b.Pro)
		contra = append(contra, b.Contra)
		labels = append(labels, b.Label)
	}

	return Build(TypeBar,
		[]Dataset{
			{Label: LabelPro, Data: pro, BackgroundColor: Colors{ColorPro}},
			{Label: LabelContra, Data: contra, BackgroundColor: Colors{ColorContra}},
		},
		labels,
		stacked,
	)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
