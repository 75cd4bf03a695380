package main

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sguter90/sensordash/pkg/broadcast"
	"github.com/sguter90/sensordash/pkg/dashboard"
	"github.com/sguter90/sensordash/pkg/telemetry"
)

// RouteManager handles all HTTP routes
type RouteManager struct {
	controller     *dashboard.Controller
	latest         *dashboard.LatestView
	hub            *broadcast.Hub
	metrics        *telemetry.Metrics
	allowedOrigins []string
	Router         *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(controller *dashboard.Controller, latest *dashboard.LatestView, hub *broadcast.Hub, metrics *telemetry.Metrics, allowedOrigins []string) *RouteManager {
	return &RouteManager{
		controller:     controller,
		latest:         latest,
		hub:            hub,
		metrics:        metrics,
		allowedOrigins: allowedOrigins,
		Router:         mux.NewRouter(),
	}
}

// Setup configures all routes
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.corsMiddleware)

	// Global OPTIONS handler - catches all preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health check and metrics
	r.HandleFunc("/health", rm.healthHandler).Methods("GET")
	r.Handle("/metrics", rm.metrics.Handler()).Methods("GET")

	// Dashboard page and live updates
	r.HandleFunc("/", rm.dashboardPageHandler).Methods("GET")
	if rm.hub != nil {
		r.Handle("/ws", rm.hub).Methods("GET")
	}

	// API v1 routes
	api := r.PathPrefix("/api/v1").Subrouter()
	rm.setupAPIRoutes(api)
}

// setupAPIRoutes configures all API v1 routes
func (rm *RouteManager) setupAPIRoutes(api *mux.Router) {
	api.HandleFunc("/dashboard", rm.getDashboardHandler).Methods("GET")
	api.HandleFunc("/range/{range}", rm.setRangeHandler).Methods("POST")
	api.HandleFunc("/refresh", rm.refreshHandler).Methods("POST")
}

// view returns the last published view, or a freshly built one before the
// first publish
func (rm *RouteManager) view() dashboard.View {
	if rm.latest != nil {
		if v, ok := rm.latest.Get(); ok {
			return v
		}
	}
	return rm.controller.View()
}

// Handler returns the router wrapped with access logging and panic recovery
func (rm *RouteManager) Handler() http.Handler {
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(rm.Router)
	return handlers.LoggingHandler(os.Stdout, recovered)
}
