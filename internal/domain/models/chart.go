package models

// MarkerPosition places a chart marker relative to its price bar.
type MarkerPosition string

// MarkerShape is the glyph drawn for a chart marker.
type MarkerShape string

const (
	PositionBelowBar MarkerPosition = "belowBar"
	PositionAboveBar MarkerPosition = "aboveBar"

	ShapeArrowUp   MarkerShape = "arrowUp"
	ShapeArrowDown MarkerShape = "arrowDown"

	ColorBuy  = "#26a69a"
	ColorSell = "#ef5350"
)

// ChartMarker is the renderer-agnostic visual form of a SignalMarker.
type ChartMarker struct {
	Time     string         `json:"time"`
	Position MarkerPosition `json:"position"`
	Color    string         `json:"color"`
	Shape    MarkerShape    `json:"shape"`
	Text     string         `json:"text"`
}
