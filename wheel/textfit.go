package wheel

import (
	"math"
	"unicode/utf8"
)

const (
	// Radius of the rendered wheel, in SVG units.
	Radius = 240.0

	labelRadiusRatio = 0.65
	labelWidthRatio  = 0.7
	charWidthRatio   = 0.6
	minFontSize      = 6.0
	maxFontSize      = 24.0
	ellipsis         = "..."
)

// FittedLabel is a label sized to fit inside its segment.
type FittedLabel struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
}

// FitLabel picks a font size for label and truncates it when it still
// cannot fit along the arc at 65% of radius.
func FitLabel(label string, segmentAngle, radius float64) FittedLabel {
	length := utf8.RuneCountInString(label)
	if length == 0 {
		return FittedLabel{FontSize: maxFontSize}
	}

	arc := radius * labelRadiusRatio * segmentAngle * math.Pi / 180
	available := arc * labelWidthRatio

	ideal := clamp(available/(charWidthRatio*float64(length)), minFontSize, maxFontSize)
	budget := int(math.Floor(available / (ideal * charWidthRatio)))

	text := label
	if length > budget && length > 6 {
		keep := max(4, budget-3)
		text = string([]rune(label)[:min(keep, length)]) + ellipsis
	}

	final := math.Min(ideal, available/(charWidthRatio*float64(utf8.RuneCountInString(text))))

	return FittedLabel{
		Text:     text,
		FontSize: math.Max(minFontSize, final),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
