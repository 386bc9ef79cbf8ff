package calendar

import "time"

// Densify expands a sparse series to one entry per day, from January 1 of the
// earliest year through December 31 of the latest year. Days without data get
// the Sentinel. Entries sharing a date are summed.
func Densify(series DateSeries) (DateSeries, error) {
	if len(series) == 0 {
		return nil, ErrEmptyInputRange
	}

	known := make(map[time.Time]float64, len(series))
	minYear, maxYear := series[0].Date.Year(), series[0].Date.Year()
	for _, dv := range series {
		if y := dv.Date.Year(); y < minYear {
			minYear = y
		} else if y > maxYear {
			maxYear = y
		}
		if dv.IsMissing() {
			continue
		}
		known[Day(dv.Date)] += dv.Value
	}

	start := time.Date(minYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(maxYear, time.December, 31, 0, 0, 0, 0, time.UTC)

	dense := make(DateSeries, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		v, ok := known[d]
		if !ok {
			v = Sentinel
		}
		dense = append(dense, DatedValue{Date: d, Value: v})
	}
	return dense, nil
}
