package main

import (
	"encoding/json"
	"net/http"
	"time"
)

// healthResponse is the body of /health
type healthResponse struct {
	Status           string     `json:"status"`
	Connected        bool       `json:"connected"`
	Offline          bool       `json:"offline"`
	LastUpdated      *time.Time `json:"lastUpdated,omitempty"`
	WebSocketClients int        `json:"websocketClients"`
}

// healthHandler reports the server status and the state of the data feed
func (rm *RouteManager) healthHandler(w http.ResponseWriter, r *http.Request) {
	state := rm.controller.State()

	resp := healthResponse{
		Status:    "ok",
		Connected: state.Connected,
		Offline:   state.Offline,
	}
	if !state.LastUpdated.IsZero() {
		resp.LastUpdated = &state.LastUpdated
	}
	if rm.hub != nil {
		resp.WebSocketClients = rm.hub.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(resp)
}
