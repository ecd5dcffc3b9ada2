package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FinSignal/internal/domain/models"
)

func TestProject_Buy(t *testing.T) {
	got := Project(models.SignalMarker{Time: "2024-01-01", Type: models.SignalBuy, Text: "FG:12"})
	assert.Equal(t, models.ChartMarker{
		Time:     "2024-01-01",
		Position: models.PositionBelowBar,
		Color:    models.ColorBuy,
		Shape:    models.ShapeArrowUp,
		Text:     "FG:12",
	}, got)
}

func TestProject_Sell(t *testing.T) {
	got := Project(models.SignalMarker{Time: "2024-01-02", Type: models.SignalSell, Text: "FG:91"})
	assert.Equal(t, models.PositionAboveBar, got.Position)
	assert.Equal(t, models.ColorSell, got.Color)
	assert.Equal(t, models.ShapeArrowDown, got.Shape)
	assert.Equal(t, "FG:91", got.Text)
}

func TestProject_DefaultLabels(t *testing.T) {
	assert.Equal(t, "Buy", Project(models.SignalMarker{Type: models.SignalBuy}).Text)
	assert.Equal(t, "Sell", Project(models.SignalMarker{Type: models.SignalSell}).Text)
}

func TestProjectAll_PreservesOrder(t *testing.T) {
	in := []models.SignalMarker{
		{Time: "2024-03-01", Type: models.SignalSell},
		{Time: "2024-01-01", Type: models.SignalBuy},
	}
	got := ProjectAll(in)
	assert.Equal(t, "2024-03-01", got[0].Time)
	assert.Equal(t, "2024-01-01", got[1].Time)
}

func TestSortAscending(t *testing.T) {
	cms := ProjectAll([]models.SignalMarker{
		{Time: "2024-03-01", Type: models.SignalSell},
		{Time: "2024-02-01", Type: models.SignalBuy},
		{Time: "2024-01-01", Type: models.SignalBuy},
	})
	SortAscending(cms)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"},
		[]string{cms[0].Time, cms[1].Time, cms[2].Time})
}
