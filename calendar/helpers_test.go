package calendar

import (
	"testing"
	"time"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// monthChunk returns every day of the month with value equal to the day number.
func monthChunk(year int, month time.Month) DateSeries {
	var s DateSeries
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		s = append(s, DatedValue{Date: d, Value: float64(d.Day())})
	}
	return s
}
