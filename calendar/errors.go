package calendar

import "errors"

var (
	// ErrEmptyInputRange is returned when there is no date to lay out.
	ErrEmptyInputRange = errors.New("empty input range")

	// ErrNoObservedData is returned when the requested year holds no real values.
	ErrNoObservedData = errors.New("no observed data in year")

	// ErrGridOverflow signals more month chunks than panel slots.
	ErrGridOverflow = errors.New("month chunks exceed panel slots")

	// ErrInvalidSeries signals a series with gaps, duplicates or disorder.
	ErrInvalidSeries = errors.New("invalid date series")

	// ErrCellCollision signals two dates of one chunk mapped to the same cell.
	ErrCellCollision = errors.New("two dates mapped to the same cell")
)
