package calendar

import (
	"fmt"
	"time"
)

// Sentinel marks a day without data. Real values are never negative.
const Sentinel = -1.0

// DatedValue is one day of a series.
type DatedValue struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// IsMissing reports whether the value is the sentinel.
func (dv DatedValue) IsMissing() bool {
	return dv.Value == Sentinel
}

// DateSeries is an ascending, day-granular sequence of values.
type DateSeries []DatedValue

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Dates returns the dates of the series in order.
func (s DateSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s))
	for i, dv := range s {
		dates[i] = dv.Date
	}
	return dates
}

// Max returns the largest non-sentinel value. ok is false when every entry is missing.
func (s DateSeries) Max() (max float64, ok bool) {
	for _, dv := range s {
		if dv.IsMissing() {
			continue
		}
		if !ok || dv.Value > max {
			max = dv.Value
			ok = true
		}
	}
	return max, ok
}

// Contains reports whether date is one of the series' days.
func (s DateSeries) Contains(date time.Time) bool {
	d := Day(date)
	for _, dv := range s {
		if dv.Date.Equal(d) {
			return true
		}
	}
	return false
}

// Validate checks that the series is ascending with exactly one entry per day.
func (s DateSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1].Date, s[i].Date
		switch {
		case !cur.After(prev):
			return fmt.Errorf("%w: date %s out of order or duplicated after %s", ErrInvalidSeries, cur.Format(DateLayout), prev.Format(DateLayout))
		case !prev.AddDate(0, 0, 1).Equal(cur):
			return fmt.Errorf("%w: gap between %s and %s", ErrInvalidSeries, prev.Format(DateLayout), cur.Format(DateLayout))
		}
	}
	return nil
}

// DateLayout is the date format used in legends, JSON and config files.
const DateLayout = "2006-01-02"
