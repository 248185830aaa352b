package pdf

import "math"

// Layout defaults. Dimensions are in points (1 point = 1/72 inch).
const (
	// DefaultPageWidth is the ISO A4 width.
	DefaultPageWidth = 595.28

	// DefaultPageHeight is the ISO A4 height.
	DefaultPageHeight = 841.89

	// DefaultMargin applies to all four page edges.
	DefaultMargin = 48.0

	// DefaultFontSize is the Helvetica size used for every line.
	DefaultFontSize = 11.0

	// DefaultLineHeight is the baseline-to-baseline distance (TL operand).
	DefaultLineHeight = 15.0

	// avgCharWidth approximates the Helvetica advance width as a fraction of
	// the font size; it converts the text column width into characters.
	avgCharWidth = 0.5
)

// Layout controls page geometry and typography of a generated document.
type Layout struct {
	PageWidth  float64 `yaml:"page_width" json:"pageWidth"`
	PageHeight float64 `yaml:"page_height" json:"pageHeight"`
	Margin     float64 `yaml:"margin" json:"margin"`
	FontSize   float64 `yaml:"font_size" json:"fontSize"`
	LineHeight float64 `yaml:"line_height" json:"lineHeight"`

	// WrapWidth is the maximum line length in characters.
	// Zero derives it from the text column width and font size.
	WrapWidth int `yaml:"wrap_width,omitempty" json:"wrapWidth,omitempty"`
}

// DefaultLayout returns an A4 layout with the package defaults.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:  DefaultPageWidth,
		PageHeight: DefaultPageHeight,
		Margin:     DefaultMargin,
		FontSize:   DefaultFontSize,
		LineHeight: DefaultLineHeight,
	}
}

// Normalize returns a copy of l in which every missing, non-finite or
// non-positive number is replaced by its default. A margin that leaves no
// room for text is reduced to an eighth of the shorter page side.
func (l Layout) Normalize() Layout {
	l.PageWidth = orDefault(l.PageWidth, DefaultPageWidth)
	l.PageHeight = orDefault(l.PageHeight, DefaultPageHeight)
	l.Margin = orDefault(l.Margin, DefaultMargin)
	l.FontSize = orDefault(l.FontSize, DefaultFontSize)
	l.LineHeight = orDefault(l.LineHeight, DefaultLineHeight)
	if l.WrapWidth < 0 {
		l.WrapWidth = 0
	}

	short := math.Min(l.PageWidth, l.PageHeight)
	if 2*l.Margin >= short {
		l.Margin = short / 8
	}
	return l
}

// LinesPerPage is the number of lines that fit between the top and bottom
// margins. It is never less than one.
func (l Layout) LinesPerPage() int {
	return clampCount((l.PageHeight - 2*l.Margin) / l.LineHeight)
}

// CharsPerLine is the wrap width in characters. It is never less than one.
func (l Layout) CharsPerLine() int {
	if l.WrapWidth > 0 {
		return l.WrapWidth
	}
	return clampCount((l.PageWidth - 2*l.Margin) / (l.FontSize * avgCharWidth))
}

// clampCount floors f to an int in [1, math.MaxInt]. NaN counts as one.
func clampCount(f float64) int {
	f = math.Floor(f)
	switch {
	case !(f >= 1):
		return 1
	case f >= math.MaxInt:
		return math.MaxInt
	}
	return int(f)
}

func orDefault(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return def
	}
	return v
}
