// Package fetcher requests the four dashboard categories from a source once
// per cycle and substitutes a fallback for every category that fails.
package fetcher

import (
	"context"
	"log"
	"time"

	"github.com/sguter90/sensordash/pkg/api"
	"github.com/sguter90/sensordash/pkg/models"
	"github.com/sguter90/sensordash/pkg/source"
	"github.com/sguter90/sensordash/pkg/telemetry"
)

// Category is one of the four independently fetched data sets
type Category string

const (
	CategoryCurrent    Category = "current"
	CategoryHistorical Category = "historical"
	CategoryStatistics Category = "statistics"
	CategoryAlerts     Category = "alerts"
)

var endpoints = map[Category]string{
	CategoryCurrent:    api.EndpointCurrent,
	CategoryHistorical: api.EndpointHistorical,
	CategoryStatistics: api.EndpointStatistics,
	CategoryAlerts:     api.EndpointAlerts,
}

// Outcome describes how one category was obtained
type Outcome struct {
	Category Category
	Err      error
	Duration time.Duration
}

// OK reports whether the value came from the source
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Canceled reports whether the request was abandoned because its cycle was
// canceled
func (o Outcome) Canceled() bool {
	return api.CategoryOf(o.Err) == api.CategoryCanceled
}

// Snapshot is the result of one full cycle. Every field holds either the
// fetched value or its fallback.
type Snapshot struct {
	Current    models.Reading
	Historical models.HistoricalSeries
	Statistics models.Statistics
	Alerts     models.AlertsResponse
	Outcomes   []Outcome
}

// Failed reports whether any category fell back for a reason other than
// cancellation
func (s Snapshot) Failed() bool {
	for _, o := range s.Outcomes {
		if !o.OK() && !o.Canceled() {
			return true
		}
	}
	return false
}

// Outcome returns the outcome of a category
func (s Snapshot) Outcome(c Category) (Outcome, bool) {
	for _, o := range s.Outcomes {
		if o.Category == c {
			return o, true
		}
	}
	return Outcome{}, false
}

// Fetcher pulls dashboard data from a Source
type Fetcher struct {
	source  source.Source
	metrics *telemetry.Metrics
}

// New creates a Fetcher. metrics may be nil.
func New(src source.Source, metrics *telemetry.Metrics) *Fetcher {
	return &Fetcher{
		source:  src,
		metrics: metrics,
	}
}

// FetchAll requests current, historical, statistics and alerts in that order,
// one attempt each. It never fails; failed categories hold their fallback.
func (f *Fetcher) FetchAll(ctx context.Context, cycleID string, hours int) Snapshot {
	var snap Snapshot

	current, o := f.FetchCurrent(ctx, cycleID)
	snap.Current = current
	snap.Outcomes = append(snap.Outcomes, o)

	series, o := f.FetchHistorical(ctx, cycleID, hours)
	snap.Historical = series
	snap.Outcomes = append(snap.Outcomes, o)

	stats, o := f.FetchStatistics(ctx, cycleID)
	snap.Statistics = stats
	snap.Outcomes = append(snap.Outcomes, o)

	alerts, o := f.FetchAlerts(ctx, cycleID)
	snap.Alerts = alerts
	snap.Outcomes = append(snap.Outcomes, o)

	return snap
}

// FetchCurrent returns the latest reading or FallbackReading
func (f *Fetcher) FetchCurrent(ctx context.Context, cycleID string) (models.Reading, Outcome) {
	start := time.Now()
	reading, err := f.source.GetCurrentData(ctx)
	o := f.record(cycleID, CategoryCurrent, start, err)
	if err != nil || reading == nil {
		return FallbackReading(), o
	}
	return *reading, o
}

// FetchHistorical returns the series for the last hours or FallbackSeries
func (f *Fetcher) FetchHistorical(ctx context.Context, cycleID string, hours int) (models.HistoricalSeries, Outcome) {
	start := time.Now()
	series, err := f.source.GetHistoricalData(ctx, hours)
	o := f.record(cycleID, CategoryHistorical, start, err)
	if err != nil || series == nil {
		return FallbackSeries(), o
	}
	return normalizeSeries(*series), o
}

// FetchStatistics returns the aggregates or FallbackStatistics
func (f *Fetcher) FetchStatistics(ctx context.Context, cycleID string) (models.Statistics, Outcome) {
	start := time.Now()
	stats, err := f.source.GetStatistics(ctx)
	o := f.record(cycleID, CategoryStatistics, start, err)
	if err != nil || stats == nil {
		return FallbackStatistics(), o
	}
	return *stats, o
}

// FetchAlerts returns the alerts or FallbackAlerts
func (f *Fetcher) FetchAlerts(ctx context.Context, cycleID string) (models.AlertsResponse, Outcome) {
	start := time.Now()
	alerts, err := f.source.GetAlerts(ctx)
	o := f.record(cycleID, CategoryAlerts, start, err)
	if err != nil || alerts == nil {
		return FallbackAlerts(), o
	}
	if alerts.Alerts == nil {
		alerts.Alerts = []models.Alert{}
	}
	return *alerts, o
}

// record logs and counts the outcome of one request
func (f *Fetcher) record(cycleID string, c Category, start time.Time, err error) Outcome {
	o := Outcome{Category: c, Err: err, Duration: time.Since(start)}
	endpoint := endpoints[c]

	switch {
	case o.OK():
		f.metrics.Fetch(endpoint, telemetry.OutcomeOK, o.Duration)
	case o.Canceled():
		log.Printf("⚠ [%s] %s canceled, cycle superseded", cycleID, endpoint)
		f.metrics.Fetch(endpoint, telemetry.OutcomeCanceled, o.Duration)
	default:
		log.Printf("❌ [%s] Error fetching %s (%s): %v; using fallback", cycleID, endpoint, api.CategoryOf(err), err)
		f.metrics.Fetch(endpoint, telemetry.OutcomeFallback, o.Duration)
	}

	return o
}

// normalizeSeries replaces nil sequences so the series encodes as []
func normalizeSeries(s models.HistoricalSeries) models.HistoricalSeries {
	if s.Labels == nil {
		s.Labels = []string{}
	}
	if s.Temperature == nil {
		s.Temperature = []float64{}
	}
	if s.Humidity == nil {
		s.Humidity = []float64{}
	}
	return s
}
