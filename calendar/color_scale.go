package calendar

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorScale splits [0, Max] into one band per color, shared by every panel
// of a year. Sentinel values fall in a separate band colored MissingColor.
type ColorScale struct {
	Max          float64
	Colors       []string
	MissingColor string
}

// Band is one contiguous range of the scale. The missing band has no range.
type Band struct {
	Lower   float64
	Upper   float64
	Color   string
	Missing bool
	Last    bool
}

// NewColorScale builds a scale over [0, max].
func NewColorScale(max float64, colors []string, missingColor string) ColorScale {
	return ColorScale{Max: max, Colors: colors, MissingColor: missingColor}
}

func (s ColorScale) step() float64 {
	return s.Max / float64(len(s.Colors))
}

// Bands lists the missing band followed by one band per color.
func (s ColorScale) Bands() []Band {
	bands := []Band{{Color: s.MissingColor, Missing: true}}
	if len(s.Colors) == 0 {
		return bands
	}
	if s.Max <= 0 {
		return append(bands, Band{Color: s.Colors[0], Last: true})
	}
	step := s.step()
	for i, c := range s.Colors {
		bands = append(bands, Band{
			Lower: float64(i) * step,
			Upper: float64(i+1) * step,
			Color: c,
			Last:  i == len(s.Colors)-1,
		})
	}
	return bands
}

// InterpolateColors returns n colors evenly spaced in RGB between two hex colors.
func InterpolateColors(from, to string, n int) ([]string, error) {
	a, err := colorful.Hex(from)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", from, err)
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", to, err)
	}
	if n < 1 {
		return nil, fmt.Errorf("color count must be positive, got %d", n)
	}
	if n == 1 {
		return []string{a.Hex()}, nil
	}

	colors := make([]string, n)
	for i := range colors {
		colors[i] = a.BlendRgb(b, float64(i)/float64(n-1)).Hex()
	}
	return colors, nil
}
