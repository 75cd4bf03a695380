package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/sguter90/sensordash/pkg/api"
	"github.com/sguter90/sensordash/pkg/config"
	"github.com/sguter90/sensordash/pkg/source"
)

// InitSourceRegistry registers every available source
func InitSourceRegistry(cfg *config.Config) *source.Registry {
	registry := source.NewRegistry()

	client := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.HTTPTimeout))
	registry.Register(source.NewAPI(client))
	registry.Register(source.NewDemo())

	return registry
}

// selectSource returns the configured source
func selectSource(registry *source.Registry, name string) (source.Source, error) {
	s, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %s)", name, strings.Join(registry.Names(), ", "))
	}
	log.Printf("✓ Using data source: %s", s.Name())
	return s, nil
}
