package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listen-heatmap/models"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{"hours", "songs"}, r.MetricNames())
	assert.Equal(t, []string{"conn_country", "platform", "reason_end", "shuffle"}, r.ShareNames())

	s, err := r.Metric("songs")
	require.NoError(t, err)
	assert.Equal(t, "songs", s.Name())
}

func TestRegistry_UnknownNames(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Metric("minutes")
	assert.True(t, errors.Is(err, ErrUnknownMetric))
	assert.Contains(t, err.Error(), "minutes")

	_, err = r.Share("genre")
	assert.True(t, errors.Is(err, ErrUnknownShare))
}

func TestRegistry_RejectsEmptyName(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.RegisterShare(fieldShare{}))
}

func TestShares_SortedByCountThenLabel(t *testing.T) {
	records := []models.PlayRecord{
		{Platform: "ios", Shuffle: true},
		{Platform: "android", Shuffle: false},
		{Platform: "web", Shuffle: true},
		{Platform: "ios", Shuffle: true},
	}
	r := DefaultRegistry()

	platform, err := r.Share("platform")
	require.NoError(t, err)
	shares := Shares(records, platform)
	assert.Equal(t, []models.Share{
		{Label: "ios", Count: 2, Percent: 50},
		{Label: "android", Count: 1, Percent: 25},
		{Label: "web", Count: 1, Percent: 25},
	}, shares)

	shuffle, err := r.Share("shuffle")
	require.NoError(t, err)
	shares = Shares(records, shuffle)
	require.Len(t, shares, 2)
	assert.Equal(t, "true", shares[0].Label)
	assert.Equal(t, 75.0, shares[0].Percent)
}

func TestShares_Empty(t *testing.T) {
	assert.Empty(t, Shares(nil, defaultShares()[0]))
}
