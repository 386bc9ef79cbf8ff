package calendar

import (
	"fmt"
	"math"
	"time"
)

// MaxPanels is the number of panel slots of a full year.
const MaxPanels = 12

// PanelColumns is the number of panels per row of the figure.
const PanelColumns = 3

// CalendarCell is one cell of a month grid.
type CalendarCell struct {
	GridPos
	Occupied bool       `json:"occupied"`
	Value    DatedValue `json:"value"`
}

// DayOfMonth returns the numeral drawn in the cell, 0 when unoccupied.
func (c CalendarCell) DayOfMonth() int {
	if !c.Occupied {
		return 0
	}
	return c.Value.Date.Day()
}

// AxisLabel is a row-axis label placed at a grid row.
type AxisLabel struct {
	Row  int    `json:"row"`
	Text string `json:"text"`
}

// MonthGrid is the week x weekday matrix of one month chunk.
type MonthGrid struct {
	Year       int              `json:"year"`
	Month      time.Month       `json:"month"`
	Rows       int              `json:"rows"`
	AnchorWeek int              `json:"anchor_week"`
	Cells      [][]CalendarCell `json:"cells"`
	RowLabels  []AxisLabel      `json:"row_labels"`
	Chunk      DateSeries       `json:"-"`
}

// YearLayout holds the month grids of one year and the shared scale maximum.
type YearLayout struct {
	Year      int         `json:"year"`
	Grids     []MonthGrid `json:"grids"`
	GlobalMax float64     `json:"global_max"`
}

// PanelGrid returns the panel slots needed for n chunks. A full year keeps
// the 4x3 figure.
func PanelGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, PanelColumns
	}
	return (n + PanelColumns - 1) / PanelColumns, PanelColumns
}

// BuildMonthGrid maps a chunk onto its grid. Cells outside the chunk stay unoccupied.
func BuildMonthGrid(chunk DateSeries) (MonthGrid, error) {
	if len(chunk) == 0 {
		return MonthGrid{}, ErrEmptyInputRange
	}

	dates := chunk.Dates()
	positions, rows := MapChunk(dates)

	cells := make([][]CalendarCell, rows)
	for r := range cells {
		cells[r] = make([]CalendarCell, DaysPerWeek)
		for c := range cells[r] {
			cells[r][c].GridPos = GridPos{WeekRow: r, WeekdayCol: c}
		}
	}
	for i, p := range positions {
		cell := &cells[p.WeekRow][p.WeekdayCol]
		if cell.Occupied {
			return MonthGrid{}, fmt.Errorf("%w: %s and %s", ErrCellCollision,
				cell.Value.Date.Format(DateLayout), dates[i].Format(DateLayout))
		}
		cell.Occupied = true
		cell.Value = chunk[i]
	}

	first := dates[0]
	return MonthGrid{
		Year:       first.Year(),
		Month:      first.Month(),
		Rows:       rows,
		AnchorWeek: AnchorWeek(dates),
		Cells:      cells,
		RowLabels:  monthLabels(dates, positions),
		Chunk:      chunk,
	}, nil
}

// monthLabels places each month's abbreviation at the median row of its dates.
func monthLabels(dates []time.Time, positions []GridPos) []AxisLabel {
	var order []time.Month
	rowsByMonth := make(map[time.Month][]int)
	for i, d := range dates {
		m := d.Month()
		if _, seen := rowsByMonth[m]; !seen {
			order = append(order, m)
		}
		rowsByMonth[m] = append(rowsByMonth[m], positions[i].WeekRow)
	}

	labels := make([]AxisLabel, 0, len(order))
	for _, m := range order {
		labels = append(labels, AxisLabel{
			Row:  int(math.Floor(median(rowsByMonth[m]))),
			Text: MonthAbbrev(m),
		})
	}
	return labels
}

// median expects rows in ascending order, as MapChunk yields them for ascending dates.
func median(rows []int) float64 {
	n := len(rows)
	if n%2 == 1 {
		return float64(rows[n/2])
	}
	return float64(rows[n/2-1]+rows[n/2]) / 2
}

// MonthAbbrev returns the three-letter English month name.
func MonthAbbrev(m time.Month) string {
	return m.String()[:3]
}

// Max returns the largest real value in the grid.
func (g MonthGrid) Max() (float64, bool) {
	return g.Chunk.Max()
}

// BuildYearLayout lays out one year of a densified series. A series with gaps
// or duplicate days is rejected with ErrInvalidSeries.
func BuildYearLayout(series DateSeries, year int) (YearLayout, error) {
	if err := series.Validate(); err != nil {
		return YearLayout{}, err
	}
	chunks := SplitMonths(YearSeries(series, year))
	if len(chunks) == 0 {
		return YearLayout{}, fmt.Errorf("year %d: %w", year, ErrNoObservedData)
	}
	if len(chunks) > MaxPanels {
		return YearLayout{}, fmt.Errorf("year %d has %d chunks: %w", year, len(chunks), ErrGridOverflow)
	}

	layout := YearLayout{Year: year, Grids: make([]MonthGrid, 0, len(chunks))}
	for _, chunk := range chunks {
		grid, err := BuildMonthGrid(chunk)
		if err != nil {
			return YearLayout{}, fmt.Errorf("building grid for %s %d: %w", MonthAbbrev(chunk[0].Date.Month()), year, err)
		}
		if m, ok := grid.Max(); ok && m > layout.GlobalMax {
			layout.GlobalMax = m
		}
		layout.Grids = append(layout.Grids, grid)
	}
	return layout, nil
}

// GridFor returns the index of the grid whose chunk contains date.
func (l YearLayout) GridFor(date time.Time) (int, bool) {
	for i, g := range l.Grids {
		if g.Chunk.Contains(date) {
			return i, true
		}
	}
	return 0, false
}
