package source

import (
	"context"

	"github.com/sguter90/sensordash/pkg/api"
)

// NameAPI identifies the live API source
const NameAPI = "api"

// API is a Source backed by the remote sensor API
type API struct {
	*api.Client
}

// NewAPI wraps an API client as a Source
func NewAPI(client *api.Client) *API {
	return &API{Client: client}
}

// Name returns "api"
func (a *API) Name() string {
	return NameAPI
}

// Probe pings the API
func (a *API) Probe(ctx context.Context) error {
	return a.Client.Ping(ctx)
}
