package util

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listen-heatmap/models"
)

func createTempFile(t *testing.T, pattern, content string) string {
	t.Helper()
	tempFile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tempFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tempFile.Close()
	return tempFile.Name()
}

func TestReadPlayRecordsFromJSON(t *testing.T) {
	content := `[
		{
			"ts": "2024-01-01T10:15:00Z",
			"platform": "android",
			"ms_played": 215000,
			"conn_country": "DE",
			"master_metadata_track_name": "Song",
			"reason_start": "clickrow",
			"reason_end": "trackdone",
			"shuffle": true,
			"skipped": false
		}
	]`
	path := createTempFile(t, "history*.json", content)

	records, err := ReadPlayRecordsFromJSON(path)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC), records[0].Timestamp)
	assert.Equal(t, int64(215000), records[0].MsPlayed)
	assert.Equal(t, "DE", records[0].ConnCountry)
	assert.True(t, records[0].Shuffle)
}

func TestReadPlayRecordsFromJSON_Errors(t *testing.T) {
	_, err := ReadPlayRecordsFromJSON("/does/not/exist.json")
	assert.Error(t, err)

	path := createTempFile(t, "history*.json", `{"not": "a list"}`)
	_, err = ReadPlayRecordsFromJSON(path)
	assert.Error(t, err)
}

func TestReadHighlightsFromYAML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bare list",
			content: `
- date: "2024-05-01"
  label: Concert
- date: "2024-12-24"
  label: Holidays
`,
		},
		{
			name: "highlights key",
			content: `
highlights:
  - date: "2024-05-01"
    label: Concert
  - date: "2024-12-24"
    label: Holidays
`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := createTempFile(t, "highlights*.yaml", test.content)

			entries, err := ReadHighlightsFromYAML(path)

			require.NoError(t, err)
			assert.Equal(t, []models.HighlightEntry{
				{Date: "2024-05-01", Label: "Concert"},
				{Date: "2024-12-24", Label: "Holidays"},
			}, entries)
		})
	}
}

func TestMergePlayRecords(t *testing.T) {
	at := func(day int, platform string) models.PlayRecord {
		return models.PlayRecord{Timestamp: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC), Platform: platform}
	}

	merged := MergePlayRecords(
		[]models.PlayRecord{at(3, "a"), at(1, "a")},
		[]models.PlayRecord{at(2, "b"), at(3, "b")},
	)

	var got []string
	for _, r := range merged {
		got = append(got, r.Timestamp.Format("02")+r.Platform)
	}
	assert.Equal(t, []string{"01a", "02b", "03a", "03b"}, got)
}
