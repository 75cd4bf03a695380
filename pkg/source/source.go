package source

import (
	"context"
	"sort"
	"sync"

	"github.com/sguter90/sensordash/pkg/models"
)

// Source defines the interface for providers of dashboard data. Every method
// makes a single attempt; callers decide what to do on failure.
type Source interface {
	// Name returns the source identifier (e.g., "api", "demo")
	Name() string

	// GetCurrentData returns the latest reading
	GetCurrentData(ctx context.Context) (*models.Reading, error)

	// GetHistoricalData returns the series covering the last hours
	GetHistoricalData(ctx context.Context, hours int) (*models.HistoricalSeries, error)

	// GetStatistics returns the aggregates over the stored readings
	GetStatistics(ctx context.Context) (*models.Statistics, error)

	// GetAlerts returns the active alerts
	GetAlerts(ctx context.Context) (*models.AlertsResponse, error)

	// Probe reports whether the source is currently reachable
	Probe(ctx context.Context) error
}

// Registry holds all available data sources
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register adds a source to the registry, replacing one with the same name
func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Name()] = s
}

// Get retrieves a source by name
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// Names returns the registered source names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
