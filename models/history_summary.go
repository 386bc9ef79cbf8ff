package models

import "time"

// HistorySummary describes the merged play records behind the cached aggregates.
// FirstDay and LastDay are local calendar days at UTC midnight.
type HistorySummary struct {
	Records  int       `json:"records"`
	FirstDay time.Time `json:"first_day"`
	LastDay  time.Time `json:"last_day"`
}
