package domain

import (
	"math"
)

// LegendItem is one swatch row of the depth legend.
type LegendItem struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// Legend is the static depth legend panel.
type Legend struct {
	Title    string       `json:"title"`
	Position string       `json:"position"`
	Items    []LegendItem `json:"items"`
}

// BuildLegend renders one item per depth bucket. Labels are derived from the
// bucket table so they always agree with ChooseColor.
func BuildLegend() Legend {
	items := make([]LegendItem, 0, len(depthBuckets))
	lower := math.Inf(-1)
	for _, b := range depthBuckets {
		items = append(items, LegendItem{Color: b.Color, Label: bucketLabel(lower, b.Upper)})
		lower = b.Upper
	}
	return Legend{
		Title:    "Depth Color Legend",
		Position: "bottomright",
		Items:    items,
	}
}

func bucketLabel(lower, upper float64) string {
	switch {
	case math.IsInf(lower, -1):
		return "Depth ≤ " + formatNumber(upper) + " km"
	case math.IsInf(upper, 1):
		return "Depth > " + formatNumber(lower) + " km"
	default:
		return formatNumber(lower) + " km < Depth ≤ " + formatNumber(upper) + " km"
	}
}
