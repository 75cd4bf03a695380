package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sguter90/sensordash/pkg/dashboard"
	"github.com/sguter90/sensordash/pkg/models"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"ranges": func() []models.TimeRange {
		return []models.TimeRange{models.Range1Hour, models.Range6Hours, models.Range24Hours, models.Range7Days}
	},
}).ParseFS(templateFS, "templates/dashboard.html"))

// dashboardPageHandler renders the latest view as HTML
func (rm *RouteManager) dashboardPageHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, rm.view()); err != nil {
		log.Printf("❌ Failed to render dashboard: %v", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// getDashboardHandler returns the latest view as JSON
func (rm *RouteManager) getDashboardHandler(w http.ResponseWriter, r *http.Request) {
	writeView(w, rm.view())
}

// setRangeHandler selects the chart range and reloads the history
func (rm *RouteManager) setRangeHandler(w http.ResponseWriter, r *http.Request) {
	tr, err := models.ParseTimeRange(mux.Vars(r)["range"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the cycle must outlive the request
	rm.controller.SetRange(context.WithoutCancel(r.Context()), tr)
	writeView(w, rm.view())
}

// refreshHandler runs a refresh cycle now
func (rm *RouteManager) refreshHandler(w http.ResponseWriter, r *http.Request) {
	rm.controller.Refresh(context.WithoutCancel(r.Context()))
	writeView(w, rm.view())
}

func writeView(w http.ResponseWriter, v dashboard.View) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(v)
}
