package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listen-heatmap/calendar"
	"listen-heatmap/models"
)

func play(ts string, ms int64, reasonEnd string) models.PlayRecord {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return models.PlayRecord{Timestamp: t, MsPlayed: ms, ReasonEnd: reasonEnd}
}

func TestSongsStrategy_CountsOnlyFinishedPlays(t *testing.T) {
	records := []models.PlayRecord{
		play("2024-03-01T10:00:00Z", 1000, "trackdone"),
		play("2024-03-01T11:00:00Z", 1000, "fwdbtn"),
		play("2024-03-01T12:00:00Z", 1000, "endplay"),
		play("2024-03-02T09:00:00Z", 1000, "fwdbtn"),
	}

	series := SongsStrategy{}.Aggregate(records, time.UTC)

	require.Len(t, series, 1)
	assert.Equal(t, calendar.Day(records[0].Timestamp), series[0].Date)
	assert.Equal(t, 2.0, series[0].Value)
}

func TestHoursStrategy_SumsMillisecondsPerDay(t *testing.T) {
	records := []models.PlayRecord{
		play("2024-03-01T10:00:00Z", 1800000, "trackdone"),
		play("2024-03-01T23:00:00Z", 1800000, "fwdbtn"),
		play("2024-03-03T08:00:00Z", 5400000, "trackdone"),
	}

	series := HoursStrategy{}.Aggregate(records, nil)

	require.Len(t, series, 2)
	assert.Equal(t, 1.0, series[0].Value)
	assert.Equal(t, 1.5, series[1].Value)
	assert.True(t, series[0].Date.Before(series[1].Date))
	assert.NoError(t, calendar.DateSeries{series[0]}.Validate())
}

func TestHoursStrategy_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	records := []models.PlayRecord{play("2024-03-01T23:30:00Z", msPerHour, "trackdone")}

	series := HoursStrategy{}.Aggregate(records, loc)

	require.Len(t, series, 1)
	assert.Equal(t, 2, series[0].Date.Day())
	assert.Equal(t, time.March, series[0].Date.Month())
}

func TestStrategy_Titles(t *testing.T) {
	assert.Equal(t, "Daily listened hours (2023)", HoursStrategy{}.Title(2023))
	assert.Equal(t, "Listened songs per day (2023)", SongsStrategy{}.Title(2023))
}
