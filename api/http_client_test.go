package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listen-heatmap/models"
)

func TestHTTPClient_GetJSON_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/audio_2024.json", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"ts":"2024-01-01T10:00:00Z","ms_played":1000,"reason_end":"trackdone","platform":"ios"}]`))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)
	var records []models.PlayRecord

	err := client.GetJSON(context.Background(), "/history/audio_2024.json", &records)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1000), records[0].MsPlayed)
	assert.Equal(t, "trackdone", records[0].ReasonEnd)
}

func TestHTTPClient_GetJSON_SendsAcceptHeader(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	var records []models.PlayRecord
	err := NewHTTPClient(mockServer.URL).GetJSON(context.Background(), "/", &records)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHTTPClient_GetJSON_InvalidBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer mockServer.Close()

	var records []models.PlayRecord
	err := NewHTTPClient(mockServer.URL).GetJSON(context.Background(), "/", &records)

	assert.ErrorContains(t, err, "failed to decode response")
}

func TestHTTPClient_GetJSON_Failure(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad request"}`))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)
	var response []models.PlayRecord

	err := client.GetJSON(context.Background(), "/test-endpoint", &response)

	require.Error(t, err)
	assert.Equal(t, "unexpected status code: 400 Bad Request", err.Error())
}

func TestHTTPClient_GetJSON_CanceledContext(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var records []models.PlayRecord
	err := NewHTTPClient(mockServer.URL).GetJSON(ctx, "/", &records)

	assert.ErrorIs(t, err, context.Canceled)
}
