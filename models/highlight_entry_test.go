package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHighlights(t *testing.T) {
	hs, err := ToHighlights([]HighlightEntry{
		{Date: "2024-05-01", Label: "Concert"},
		{Date: "2023-12-31", Label: "NYE"},
	})

	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), hs[0].Date)
	assert.Equal(t, "Concert", hs[0].Label)
	assert.Equal(t, "2023-12-31: NYE", hs[1].LegendEntry())
}

func TestToHighlights_InvalidDate(t *testing.T) {
	_, err := ToHighlights([]HighlightEntry{{Date: "01/05/2024", Label: "x"}})
	assert.Error(t, err)
}
