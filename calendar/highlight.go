package calendar

import (
	"fmt"
	"time"
)

// Highlight flags a date to be framed on the heatmap.
type Highlight struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

// LegendEntry renders the highlight as "YYYY-MM-DD: label".
func (h Highlight) LegendEntry() string {
	return fmt.Sprintf("%s: %s", h.Date.Format(DateLayout), h.Label)
}

// Mark is a highlight placed on a panel.
type Mark struct {
	Panel     int       `json:"panel"`
	Position  GridPos   `json:"position"`
	Highlight Highlight `json:"highlight"`
}

// Annotations are the overlays of one year: per-panel marks and one legend.
type Annotations struct {
	Marks   []Mark      `json:"marks"`
	Legend  []string    `json:"legend"`
	Skipped []Highlight `json:"-"`
}

// Empty reports whether nothing is to be drawn.
func (a Annotations) Empty() bool {
	return len(a.Marks) == 0
}

// Annotate places every highlight of the layout's year on the panel holding its
// date. Highlights outside the year or outside every chunk are returned in
// Skipped and produce neither a mark nor a legend entry.
func Annotate(layout YearLayout, highlights []Highlight) Annotations {
	var a Annotations
	for _, h := range highlights {
		if h.Date.Year() != layout.Year {
			a.Skipped = append(a.Skipped, h)
			continue
		}
		panel, ok := layout.GridFor(h.Date)
		if !ok {
			a.Skipped = append(a.Skipped, h)
			continue
		}
		pos, _ := PositionIn(layout.Grids[panel].Chunk, h.Date)
		a.Marks = append(a.Marks, Mark{Panel: panel, Position: pos, Highlight: h})
		a.Legend = append(a.Legend, h.LegendEntry())
	}
	return a
}

// MarksFor returns the marks drawn on one panel.
func (a Annotations) MarksFor(panel int) []Mark {
	var out []Mark
	for _, m := range a.Marks {
		if m.Panel == panel {
			out = append(out, m)
		}
	}
	return out
}
