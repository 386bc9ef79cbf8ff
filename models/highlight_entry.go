package models

import (
	"fmt"
	"time"

	"listen-heatmap/calendar"
)

// HighlightEntry is a highlighted date as written in config and highlight files.
type HighlightEntry struct {
	Date  string `json:"date" yaml:"date" mapstructure:"date"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// ToHighlight parses the YYYY-MM-DD date.
func (e HighlightEntry) ToHighlight() (calendar.Highlight, error) {
	d, err := time.Parse(calendar.DateLayout, e.Date)
	if err != nil {
		return calendar.Highlight{}, fmt.Errorf("invalid highlight date %q: %w", e.Date, err)
	}
	return calendar.Highlight{Date: d, Label: e.Label}, nil
}

// ToHighlights converts entries in order, failing on the first bad date.
func ToHighlights(entries []HighlightEntry) ([]calendar.Highlight, error) {
	out := make([]calendar.Highlight, 0, len(entries))
	for _, e := range entries {
		h, err := e.ToHighlight()
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
