package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

// MockHandler answers every route with a fixed body naming the route.
type MockHandler struct{}

func (h *MockHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`pong`))
}

func (h *MockHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`metrics`))
}

func (h *MockHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`heatmap ` + mux.Vars(r)["year"]))
}

func (h *MockHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`layout ` + mux.Vars(r)["year"]))
}

func (h *MockHandler) GetShares(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`shares ` + mux.Vars(r)["field"]))
}

func TestRouter_RegisterRoutes(t *testing.T) {
	router := mux.NewRouter()
	appRouter := NewRouter(&MockHandler{}, router)
	appRouter.RegisterRoutes()

	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
		response   string
	}{
		{name: "Ping Route", method: "GET", path: "/ping", statusCode: http.StatusOK, response: "pong"},
		{name: "List Metrics", method: "GET", path: "/v1/metrics", statusCode: http.StatusOK, response: "metrics"},
		{name: "Heatmap", method: "GET", path: "/v1/heatmap/2024?metric=songs", statusCode: http.StatusOK, response: "heatmap 2024"},
		{name: "Layout", method: "GET", path: "/v1/layout/2023", statusCode: http.StatusOK, response: "layout 2023"},
		{name: "Shares", method: "GET", path: "/v1/shares/platform", statusCode: http.StatusOK, response: "shares platform"},
		{name: "Non-numeric year", method: "GET", path: "/v1/heatmap/latest", statusCode: http.StatusNotFound},
		{name: "Wrong method", method: "POST", path: "/v1/metrics", statusCode: http.StatusMethodNotAllowed},
		{name: "Invalid Route", method: "GET", path: "/invalid", statusCode: http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, test.statusCode, rr.Code)
			if test.response != "" {
				assert.Equal(t, test.response, rr.Body.String())
			}
		})
	}
}
