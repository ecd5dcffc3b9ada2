// Package chart projects signal markers onto the visual marker form consumed by
// charting front-ends.
package chart

import (
	"sort"

	"FinSignal/internal/domain/models"
)

// Project maps a signal marker to its chart marker. Buys sit below the bar as green up
// arrows, sells above the bar as red down arrows. An empty text falls back to the side name.
func Project(m models.SignalMarker) models.ChartMarker {
	if m.Type == models.SignalSell {
		return models.ChartMarker{
			Time:     m.Time,
			Position: models.PositionAboveBar,
			Color:    models.ColorSell,
			Shape:    models.ShapeArrowDown,
			Text:     labelOr(m.Text, "Sell"),
		}
	}
	return models.ChartMarker{
		Time:     m.Time,
		Position: models.PositionBelowBar,
		Color:    models.ColorBuy,
		Shape:    models.ShapeArrowUp,
		Text:     labelOr(m.Text, "Buy"),
	}
}

// ProjectAll projects every marker, preserving input order.
func ProjectAll(ms []models.SignalMarker) []models.ChartMarker {
	out := make([]models.ChartMarker, 0, len(ms))
	for _, m := range ms {
		out = append(out, Project(m))
	}
	return out
}

// SortAscending orders chart markers chronologically in place, as renderers require.
func SortAscending(cms []models.ChartMarker) {
	sort.SliceStable(cms, func(i, j int) bool { return cms[i].Time < cms[j].Time })
}

func labelOr(text, def string) string {
	if text == "" {
		return def
	}
	return text
}
