package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handler serves the heatmap API.
type Handler interface {
	Ping(w http.ResponseWriter, r *http.Request)
	ListMetrics(w http.ResponseWriter, r *http.Request)
	GetHeatmap(w http.ResponseWriter, r *http.Request)
	GetLayout(w http.ResponseWriter, r *http.Request)
	GetShares(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	handler Handler
	router  *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(handler Handler, router *mux.Router) *Router {
	return &Router{
		handler: handler,
		router:  router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/ping", r.handler.Ping).Methods("GET")

	r.router.HandleFunc("/v1/metrics", r.handler.ListMetrics).Methods("GET")

	// expects ?metric={hours|songs}, falls back to the configured metric
	r.router.HandleFunc("/v1/heatmap/{year:[0-9]+}", r.handler.GetHeatmap).Methods("GET")
	r.router.HandleFunc("/v1/layout/{year:[0-9]+}", r.handler.GetLayout).Methods("GET")

	// expects optional ?format=json
	r.router.HandleFunc("/v1/shares/{field}", r.handler.GetShares).Methods("GET")
}
