package calendar

import "time"

// YearSeries extracts the entries of one calendar year.
func YearSeries(series DateSeries, year int) DateSeries {
	var out DateSeries
	for _, dv := range series {
		if dv.Date.Year() == year {
			out = append(out, dv)
		}
	}
	return out
}

// SplitMonths partitions a year series into per-month chunks, one for every
// month between the first and last month holding real (non-sentinel) data.
// Order inside each chunk is preserved.
func SplitMonths(yearSeries DateSeries) []DateSeries {
	first, last, ok := observedMonths(yearSeries)
	if !ok {
		return nil
	}

	byMonth := make(map[time.Month]DateSeries, last-first+1)
	for _, dv := range yearSeries {
		m := dv.Date.Month()
		if m < first || m > last {
			continue
		}
		byMonth[m] = append(byMonth[m], dv)
	}

	chunks := make([]DateSeries, 0, last-first+1)
	for m := first; m <= last; m++ {
		if len(byMonth[m]) == 0 {
			continue
		}
		chunks = append(chunks, byMonth[m])
	}
	return chunks
}

func observedMonths(series DateSeries) (first, last time.Month, ok bool) {
	for _, dv := range series {
		if dv.IsMissing() {
			continue
		}
		m := dv.Date.Month()
		if !ok || m < first {
			first = m
		}
		if !ok || m > last {
			last = m
		}
		ok = true
	}
	return first, last, ok
}
