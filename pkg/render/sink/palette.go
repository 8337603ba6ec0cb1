package sink

import "github.com/matzehuels/domespec/pkg/render/wireframe"

// Palette holds the colors shared by every sink. Colors are CSS hex strings.
type Palette struct {
	Background string
	Face       string
	FaceStroke string
	Equator    string
	Grid       string
	Room       string
	Dimension  string
	Text       string
}

// DefaultPalette matches the customer preview.
var DefaultPalette = Palette{
	Background: "#ffffff",
	Face:       "#dbe9f6",
	FaceStroke: "#9fb7cc",
	Equator:    "#d62728",
	Grid:       "#1f77b4",
	Room:       "#7f7f7f",
	Dimension:  "#2ca02c",
	Text:       "#222222",
}

type lineStyle struct {
	color  string
	width  float64
	dashed bool
}

func (p Palette) line(k wireframe.LineKind) lineStyle {
	switch k {
	case wireframe.LineEquator:
		return lineStyle{color: p.Equator, width: 1.6}
	case wireframe.LineRoom:
		return lineStyle{color: p.Room, width: 1, dashed: true}
	case wireframe.LineDimension:
		return lineStyle{color: p.Dimension, width: 1.2}
	default:
		return lineStyle{color: p.Grid, width: 0.6}
	}
}

const (
	faceStrokeWidth = 0.4
	labelFontSize   = 12.0
	titleFontSize   = 16.0
	titleBaseline   = 30.0
)
