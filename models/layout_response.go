// models/layout_response.go
package models

import "listen-heatmap/calendar"

// LayoutResponse is the JSON form of a rendered year returned by GET /v1/layout/{year}
type LayoutResponse struct {
	Year        int                  `json:"year"`
	Metric      string               `json:"metric"`
	Title       string               `json:"title"`
	PanelRows   int                  `json:"panel_rows"`
	PanelCols   int                  `json:"panel_cols"`
	Layout      calendar.YearLayout  `json:"layout"`
	Annotations calendar.Annotations `json:"annotations"`
}

// MetricsResponse lists the registered strategies and the state of the cache.
// History is nil until the first refresh.
type MetricsResponse struct {
	Metrics []string        `json:"metrics"`
	Shares  []string        `json:"shares"`
	Cached  []string        `json:"cached"`
	History *HistorySummary `json:"history,omitempty"`
}
