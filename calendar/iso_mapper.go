package calendar

import "time"

// DaysPerWeek is the column count of every month grid.
const DaysPerWeek = 7

// GridPos is a cell coordinate inside one month grid.
type GridPos struct {
	WeekRow    int `json:"week_row"`
	WeekdayCol int `json:"weekday_col"`
}

// WeekdayCol maps Monday..Sunday to 0..6.
func WeekdayCol(d time.Time) int {
	return (int(d.Weekday()) + 6) % DaysPerWeek
}

// ISOWeeksInYear returns 52 or 53. December 28 always falls in the last ISO week.
func ISOWeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// WeekOrdinal returns the ISO week number of d, made continuous across the
// calendar year d belongs to. Late-December days that ISO assigns to week 1 of
// the next year continue after the last week, and early-January days that ISO
// assigns to the previous year's last week become week 0.
func WeekOrdinal(d time.Time) int {
	isoYear, week := d.ISOWeek()
	switch {
	case isoYear > d.Year():
		week += ISOWeeksInYear(d.Year())
	case isoYear < d.Year():
		week -= ISOWeeksInYear(isoYear)
	}
	return week
}

// AnchorWeek is the smallest week ordinal among dates.
func AnchorWeek(dates []time.Time) int {
	anchor := 0
	for i, d := range dates {
		if w := WeekOrdinal(d); i == 0 || w < anchor {
			anchor = w
		}
	}
	return anchor
}

// MapChunk places each date of a chunk on the grid and returns the row count.
// Rows are normalized so the chunk's earliest week is row 0.
func MapChunk(dates []time.Time) (positions []GridPos, rows int) {
	anchor := AnchorWeek(dates)
	positions = make([]GridPos, len(dates))
	for i, d := range dates {
		p := GridPos{WeekRow: WeekOrdinal(d) - anchor, WeekdayCol: WeekdayCol(d)}
		if p.WeekRow+1 > rows {
			rows = p.WeekRow + 1
		}
		positions[i] = p
	}
	return positions, rows
}

// PositionIn recomputes the coordinate of date anchored at chunk's earliest
// week, matching what MapChunk produced for the same chunk.
func PositionIn(chunk DateSeries, date time.Time) (GridPos, bool) {
	if !chunk.Contains(date) {
		return GridPos{}, false
	}
	d := Day(date)
	return GridPos{
		WeekRow:    WeekOrdinal(d) - AnchorWeek(chunk.Dates()),
		WeekdayCol: WeekdayCol(d),
	}, true
}
