package metrics

import (
	"fmt"
	"sort"
	"time"

	"listen-heatmap/calendar"
	"listen-heatmap/models"
)

const msPerHour = 1000 * 60 * 60

// finishedReasons are the reason_end values of a playback that ran to completion.
var finishedReasons = map[string]struct{}{
	"endplay":   {},
	"trackdone": {},
}

// HoursStrategy sums listened time per day, in hours.
type HoursStrategy struct{}

func (HoursStrategy) Name() string { return "hours" }

func (HoursStrategy) Title(year int) string {
	return fmt.Sprintf("Daily listened hours (%d)", year)
}

func (HoursStrategy) Aggregate(records []models.PlayRecord, loc *time.Location) calendar.DateSeries {
	return dailyTotals(records, loc, func(r models.PlayRecord) (float64, bool) {
		return float64(r.MsPlayed) / msPerHour, true
	})
}

// SongsStrategy counts finished playbacks per day. Skips and other end reasons are ignored.
type SongsStrategy struct{}

func (SongsStrategy) Name() string { return "songs" }

func (SongsStrategy) Title(year int) string {
	return fmt.Sprintf("Listened songs per day (%d)", year)
}

func (SongsStrategy) Aggregate(records []models.PlayRecord, loc *time.Location) calendar.DateSeries {
	return dailyTotals(records, loc, func(r models.PlayRecord) (float64, bool) {
		_, finished := finishedReasons[r.ReasonEnd]
		return 1, finished
	})
}

// dailyTotals sums value(r) per local day over the records value accepts.
func dailyTotals(records []models.PlayRecord, loc *time.Location, value func(models.PlayRecord) (float64, bool)) calendar.DateSeries {
	if loc == nil {
		loc = time.UTC
	}
	totals := make(map[time.Time]float64)
	for _, r := range records {
		v, ok := value(r)
		if !ok {
			continue
		}
		totals[calendar.Day(r.Timestamp.In(loc))] += v
	}

	series := make(calendar.DateSeries, 0, len(totals))
	for d, v := range totals {
		series = append(series, calendar.DatedValue{Date: d, Value: v})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
