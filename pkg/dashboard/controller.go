package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sguter90/sensordash/pkg/analysis"
	"github.com/sguter90/sensordash/pkg/fetcher"
	"github.com/sguter90/sensordash/pkg/models"
	"github.com/sguter90/sensordash/pkg/telemetry"
)

// RefreshInterval is the period of the refresh loop
const RefreshInterval = 60 * time.Second

// Refresh kinds, used as metric labels
const (
	KindFull  = "full"
	KindRange = "range"
)

// Controller owns the dashboard state and runs the periodic refresh loop.
//
// Every full cycle takes a generation number and cancels the previous
// in-flight cycle; a result is committed only when its generation is newer
// than the last committed one. Historical fetches carry a second generation
// number so a range change cannot be overwritten by a series fetched for an
// older range.
type Controller struct {
	fetcher    *fetcher.Fetcher
	thresholds analysis.Thresholds
	metrics    *telemetry.Metrics
	interval   time.Duration
	now        func() time.Time

	mu    sync.Mutex
	state State
	sinks []Sink

	gen          uint64
	committedGen uint64
	cancelCycle  context.CancelFunc

	seriesGen          uint64
	committedSeriesGen uint64
	cancelRange        context.CancelFunc

	dismissTimer *time.Timer

	publishMu sync.Mutex

	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// Option configures a Controller
type Option func(*Controller)

// WithThresholds sets the classification thresholds
func WithThresholds(t analysis.Thresholds) Option {
	return func(c *Controller) {
		c.thresholds = t
	}
}

// WithMetrics sets the Prometheus collectors
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithInterval sets the refresh period
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.interval = d
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithSinks registers sinks at construction
func WithSinks(sinks ...Sink) Option {
	return func(c *Controller) {
		c.sinks = append(c.sinks, sinks...)
	}
}

// NewController creates a Controller in its initial state
func NewController(f *fetcher.Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:    f,
		thresholds: analysis.DefaultThresholds(),
		interval:   RefreshInterval,
		now:        time.Now,
		state:      InitialState(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AddSink registers a sink for future commits
func (c *Controller) AddSink(s Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, s)
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View builds the view of the current state at the current time
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildView(c.state, c.thresholds, c.now())
}

// Start runs one refresh immediately and then one per interval until ctx is
// done or Stop is called
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stopChan = make(chan struct{})
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.run(ctx)
	log.Printf("✓ Refresh loop started (every %s)", c.interval)
}

// Stop ends the refresh loop, cancels any in-flight cycle and waits for the
// loop to exit
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopChan)
	done := c.done
	if c.cancelCycle != nil {
		c.cancelCycle()
	}
	if c.cancelRange != nil {
		c.cancelRange()
	}
	if c.dismissTimer != nil {
		c.dismissTimer.Stop()
	}
	c.mu.Unlock()

	<-done
	log.Println("✓ Refresh loop stopped")
}

// run executes the refresh loop
func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Refresh immediately on start
	c.Refresh(ctx)

	for {
		select {
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

// Refresh runs one full cycle: fetch all four categories, commit them unless
// a newer cycle already did, and publish the view. It reports whether the
// result was committed.
func (c *Controller) Refresh(ctx context.Context) bool {
	cycleID := uuid.NewString()
	start := time.Now()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancelCycle != nil {
		c.cancelCycle()
	}
	cycleCtx, cancel := context.WithCancel(ctx)
	c.cancelCycle = cancel
	c.seriesGen++
	seriesGen := c.seriesGen
	hours := c.state.Range.Hours()
	c.mu.Unlock()
	defer cancel()

	log.Printf("🔄 [%s] Refreshing dashboard data (generation %d, %dh)", cycleID, gen, hours)

	snap := c.fetcher.FetchAll(cycleCtx, cycleID, hours)

	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	if cycleCtx.Err() != nil || gen <= c.committedGen {
		c.mu.Unlock()
		c.metrics.Stale(KindFull)
		log.Printf("⚠ [%s] Discarding stale result of generation %d", cycleID, gen)
		return false
	}
	c.committedGen = gen

	withSeries := seriesGen > c.committedSeriesGen
	if withSeries {
		c.committedSeriesGen = seriesGen
	} else {
		c.metrics.Stale(KindRange)
		log.Printf("⚠ [%s] Keeping series of newer range selection", cycleID)
	}

	now := c.now()
	c.state.applySnapshot(snap, withSeries, now)
	if snap.Failed() {
		c.scheduleDismissLocked()
	}
	view := BuildView(c.state, c.thresholds, now)
	sinks := append([]Sink(nil), c.sinks...)
	c.mu.Unlock()

	c.recordCurrent(snap.Current)
	c.metrics.Refresh(KindFull, time.Since(start))

	publish(sinks, view)

	if snap.Failed() {
		log.Printf("⚠ [%s] Dashboard updated with fallback data", cycleID)
	} else {
		log.Printf("✓ [%s] Dashboard updated", cycleID)
	}
	return true
}

// SetRange selects the chart range and re-fetches only the historical
// series. Unknown ranges fall back to 24h. It reports whether the fetched
// series was committed.
func (c *Controller) SetRange(ctx context.Context, r models.TimeRange) bool {
	if _, err := models.ParseTimeRange(string(r)); err != nil {
		r = models.DefaultRange
	}
	cycleID := uuid.NewString()
	start := time.Now()

	c.mu.Lock()
	c.state.Range = r
	c.seriesGen++
	seriesGen := c.seriesGen
	if c.cancelRange != nil {
		c.cancelRange()
	}
	rangeCtx, cancel := context.WithCancel(ctx)
	c.cancelRange = cancel
	c.mu.Unlock()
	defer cancel()

	log.Printf("🔄 [%s] Loading %s history", cycleID, r)

	series, outcome := c.fetcher.FetchHistorical(rangeCtx, cycleID, r.Hours())

	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	if rangeCtx.Err() != nil || seriesGen <= c.committedSeriesGen {
		c.mu.Unlock()
		c.metrics.Stale(KindRange)
		log.Printf("⚠ [%s] Discarding stale %s history", cycleID, r)
		return false
	}
	c.committedSeriesGen = seriesGen

	now := c.now()
	c.state.Historical = series
	if !outcome.OK() {
		c.state.raiseBanner(now)
		c.scheduleDismissLocked()
	}
	view := BuildView(c.state, c.thresholds, now)
	sinks := append([]Sink(nil), c.sinks...)
	c.mu.Unlock()

	c.metrics.Refresh(KindRange, time.Since(start))
	publish(sinks, view)

	log.Printf("✓ [%s] Chart range set to %s (%d samples)", cycleID, r, series.Len())
	return true
}

// SetConnected records the result of a connection probe and republishes the
// view when the status changed
func (c *Controller) SetConnected(connected bool) {
	c.metrics.SetSourceUp(connected)

	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	if c.state.Connected == connected {
		c.mu.Unlock()
		return
	}
	c.state.Connected = connected
	view := BuildView(c.state, c.thresholds, c.now())
	sinks := append([]Sink(nil), c.sinks...)
	c.mu.Unlock()

	publish(sinks, view)
}

// scheduleDismissLocked republishes the view once the banner has expired.
// c.mu must be held.
func (c *Controller) scheduleDismissLocked() {
	if c.dismissTimer != nil {
		c.dismissTimer.Stop()
	}
	c.dismissTimer = time.AfterFunc(BannerLifetime, c.republish)
}

// republish sends the current view to every sink
func (c *Controller) republish() {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	view := BuildView(c.state, c.thresholds, c.now())
	sinks := append([]Sink(nil), c.sinks...)
	c.mu.Unlock()

	publish(sinks, view)
}

func (c *Controller) recordCurrent(r models.Reading) {
	c.metrics.SetCurrent(string(models.MetricTemperature), r.Temperature)
	c.metrics.SetCurrent(string(models.MetricHumidity), r.Humidity)
	c.metrics.SetCurrent(string(models.MetricHeatIndex), r.HeatIndexC)
}

func publish(sinks []Sink, v View) {
	for _, s := range sinks {
		s.Publish(v)
	}
}
