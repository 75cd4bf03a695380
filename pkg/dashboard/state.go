// Package dashboard owns the refresh loop, the dashboard state, and the view
// model handed to presentation sinks.
package dashboard

import (
	"time"

	"github.com/sguter90/sensordash/pkg/fetcher"
	"github.com/sguter90/sensordash/pkg/models"
)

const (
	// BannerMessage is shown after a cycle in which any category fell back
	BannerMessage = "Unable to load real-time data. Check API connection."

	// BannerLifetime is how long the banner stays visible
	BannerLifetime = 5 * time.Second
)

// Banner is a transient error message
type Banner struct {
	Message   string
	ExpiresAt time.Time
}

// Active reports whether the banner is set and not yet expired
func (b Banner) Active(now time.Time) bool {
	return b.Message != "" && now.Before(b.ExpiresAt)
}

// State is everything the dashboard displays. It is owned by a Controller
// and only changed through it. Offline marks Current as the fallback reading.
type State struct {
	Current     models.Reading
	Offline     bool
	Historical  models.HistoricalSeries
	Statistics  models.Statistics
	Alerts      models.AlertsResponse
	Range       models.TimeRange
	Banner      Banner
	Connected   bool
	LastUpdated time.Time
}

// InitialState is the state before the first cycle commits
func InitialState() State {
	return State{
		Current:    fetcher.FallbackReading(),
		Offline:    true,
		Historical: fetcher.FallbackSeries(),
		Statistics: fetcher.FallbackStatistics(),
		Alerts:     fetcher.FallbackAlerts(),
		Range:      models.DefaultRange,
	}
}

// SnapshotState is the state a single cycle would commit on top of the
// initial state
func SnapshotState(snap fetcher.Snapshot, r models.TimeRange, now time.Time) State {
	s := InitialState()
	s.Range = r
	s.applySnapshot(snap, true, now)
	return s
}

// applySnapshot replaces every category and raises the banner when any of
// them fell back
func (s *State) applySnapshot(snap fetcher.Snapshot, withSeries bool, now time.Time) {
	s.Current = snap.Current
	if o, ok := snap.Outcome(fetcher.CategoryCurrent); ok {
		s.Offline = !o.OK()
	}
	s.Statistics = snap.Statistics
	s.Alerts = snap.Alerts
	if withSeries {
		s.Historical = snap.Historical
	}
	s.LastUpdated = now
	if snap.Failed() {
		s.raiseBanner(now)
	}
}

func (s *State) raiseBanner(now time.Time) {
	s.Banner = Banner{Message: BannerMessage, ExpiresAt: now.Add(BannerLifetime)}
}

// clone returns a copy that shares no slices with s
func (s State) clone() State {
	c := s
	c.Historical = s.Historical.Clone()
	c.Alerts.Alerts = append([]models.Alert{}, s.Alerts.Alerts...)
	return c
}
