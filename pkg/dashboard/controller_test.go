package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sguter90/sensordash/pkg/api"
	"github.com/sguter90/sensordash/pkg/fetcher"
	"github.com/sguter90/sensordash/pkg/models"
	"github.com/sguter90/sensordash/pkg/telemetry"
)

// MockSource serves fixed data. Calls for a blocked category or hour count
// wait until released or until their context ends.
type MockSource struct {
	mu sync.Mutex

	reading      models.Reading
	currentErr   error
	blockCurrent chan struct{}
	enteredCur   chan struct{}
	blockHours   map[int]chan struct{}
	enteredHours map[int]chan struct{}
	currentCalls int
	probeErr     error
}

func newMockSource() *MockSource {
	return &MockSource{
		reading:      models.Reading{Temperature: 25.3, Humidity: 65, DeviceID: "esp32-sensor-01", WifiRSSI: -45},
		blockHours:   make(map[int]chan struct{}),
		enteredHours: make(map[int]chan struct{}),
	}
}

// blockHistory makes historical calls for hours wait for release
func (m *MockSource) blockHistory(hours int) (entered <-chan struct{}, release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	block := make(chan struct{})
	enter := make(chan struct{}, 1)
	m.blockHours[hours] = block
	m.enteredHours[hours] = enter
	return enter, func() { close(block) }
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) GetCurrentData(ctx context.Context) (*models.Reading, error) {
	m.mu.Lock()
	m.currentCalls++
	block, entered := m.blockCurrent, m.enteredCur
	reading, err := m.reading, m.currentErr
	m.mu.Unlock()

	if block != nil {
		entered <- struct{}{}
		select {
		case <-block:
		case <-ctx.Done():
			return nil, &api.NetworkError{Endpoint: api.EndpointCurrent, Err: ctx.Err()}
		}
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (m *MockSource) GetHistoricalData(ctx context.Context, hours int) (*models.HistoricalSeries, error) {
	m.mu.Lock()
	block, entered := m.blockHours[hours], m.enteredHours[hours]
	m.mu.Unlock()

	if block != nil {
		entered <- struct{}{}
		select {
		case <-block:
		case <-ctx.Done():
			return nil, &api.NetworkError{Endpoint: api.EndpointHistorical, Err: ctx.Err()}
		}
	}

	// one sample per hour plus the newest, capped at a day
	s := models.EmptySeries()
	for i := 0; i <= hours && i < 24; i++ {
		s.Append("03:00 PM", 25, 65, 0)
	}
	return &s, nil
}

func (m *MockSource) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	return &models.Statistics{DataPoints: 1440}, nil
}

func (m *MockSource) GetAlerts(ctx context.Context) (*models.AlertsResponse, error) {
	return &models.AlertsResponse{Alerts: []models.Alert{}}, nil
}

func (m *MockSource) Probe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probeErr
}

// recordingSink collects published views
type recordingSink struct {
	mu    sync.Mutex
	views []View
}

func (r *recordingSink) Publish(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *recordingSink) Views() []View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]View(nil), r.views...)
}

var fixedNow = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func newTestController(src *MockSource, opts ...Option) (*Controller, *recordingSink) {
	sink := &recordingSink{}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithSinks(sink)}, opts...)
	return NewController(fetcher.New(src, nil), opts...), sink
}

func TestController_InitialState(t *testing.T) {
	c, _ := newTestController(newMockSource())

	s := c.State()
	assert.Equal(t, models.DefaultRange, s.Range)
	assert.Equal(t, fetcher.FallbackReading(), s.Current)
	assert.True(t, s.LastUpdated.IsZero())
	assert.False(t, s.Connected)
}

func TestController_RefreshCommitsAndPublishes(t *testing.T) {
	src := newMockSource()
	c, sink := newTestController(src)

	require.True(t, c.Refresh(context.Background()))

	s := c.State()
	assert.Equal(t, 25.3, s.Current.Temperature)
	assert.Equal(t, 24, s.Historical.Len())
	assert.Equal(t, 1440, s.Statistics.DataPoints)
	assert.Equal(t, fixedNow, s.LastUpdated)
	assert.False(t, s.Banner.Active(fixedNow))

	views := sink.Views()
	require.Len(t, views, 1)
	assert.Equal(t, "25.3°C", views[0].Temperature.Value)
	assert.Empty(t, views[0].Banner)
}

func TestController_FailureRaisesBanner(t *testing.T) {
	src := newMockSource()
	src.currentErr = &api.StatusError{Endpoint: api.EndpointCurrent, StatusCode: 500}
	c, sink := newTestController(src)

	require.True(t, c.Refresh(context.Background()))

	s := c.State()
	assert.Equal(t, fetcher.FallbackReading(), s.Current)
	assert.Equal(t, 24, s.Historical.Len(), "other categories keep their values")
	assert.True(t, s.Banner.Active(fixedNow))
	assert.Equal(t, fixedNow.Add(BannerLifetime), s.Banner.ExpiresAt)

	views := sink.Views()
	require.NotEmpty(t, views)
	assert.Equal(t, BannerMessage, views[0].Banner)
}

func TestController_SupersededCycleIsDiscarded(t *testing.T) {
	src := newMockSource()
	entered := make(chan struct{}, 1)
	src.blockCurrent = make(chan struct{})
	src.enteredCur = entered
	metrics := telemetry.New()
	c, sink := newTestController(src, WithMetrics(metrics))

	first := make(chan bool)
	go func() {
		first <- c.Refresh(context.Background())
	}()
	<-entered

	// the second cycle must not block
	src.mu.Lock()
	src.blockCurrent = nil
	src.reading.Temperature = 31
	src.mu.Unlock()

	require.True(t, c.Refresh(context.Background()))
	assert.False(t, <-first, "older cycle must not commit")

	assert.Equal(t, 31.0, c.State().Current.Temperature)
	assert.Len(t, sink.Views(), 1)
	expected := `
# HELP sensordash_stale_results_total Results discarded because a newer cycle had already committed.
# TYPE sensordash_stale_results_total counter
sensordash_stale_results_total{kind="full"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "sensordash_stale_results_total"))
}

func TestController_RangeChangeWinsOverOlderCycle(t *testing.T) {
	src := newMockSource()
	entered, release := src.blockHistory(24)
	c, _ := newTestController(src)

	full := make(chan bool)
	go func() {
		full <- c.Refresh(context.Background())
	}()
	<-entered

	require.True(t, c.SetRange(context.Background(), models.Range1Hour))

	release()
	require.True(t, <-full)

	s := c.State()
	assert.Equal(t, models.Range1Hour, s.Range)
	assert.Equal(t, 2, s.Historical.Len(), "series of the newer range selection is kept")
	assert.Equal(t, 25.3, s.Current.Temperature, "the rest of the cycle still commits")
}

func TestController_SetRange(t *testing.T) {
	testCases := []struct {
		r        models.TimeRange
		expected models.TimeRange
		samples  int
	}{
		{models.Range1Hour, models.Range1Hour, 2},
		{models.Range6Hours, models.Range6Hours, 7},
		{models.Range24Hours, models.Range24Hours, 24},
		{models.Range7Days, models.Range7Days, 24},
		{"30d", models.Range24Hours, 24},
	}

	for _, tc := range testCases {
		t.Run(string(tc.r), func(t *testing.T) {
			src := newMockSource()
			c, sink := newTestController(src)

			require.True(t, c.SetRange(context.Background(), tc.r))

			s := c.State()
			assert.Equal(t, tc.expected, s.Range)
			assert.Equal(t, tc.samples, s.Historical.Len())
			assert.Equal(t, 0, src.currentCalls, "range change fetches history only")
			require.Len(t, sink.Views(), 1)
			assert.Equal(t, tc.expected, sink.Views()[0].Range)
		})
	}
}

func TestController_RefreshUsesSelectedRange(t *testing.T) {
	src := newMockSource()
	c, _ := newTestController(src)

	c.SetRange(context.Background(), models.Range6Hours)
	c.Refresh(context.Background())

	assert.Equal(t, 7, c.State().Historical.Len())
}

func TestController_SetConnected(t *testing.T) {
	c, sink := newTestController(newMockSource())

	c.SetConnected(true)
	c.SetConnected(true)

	views := sink.Views()
	require.Len(t, views, 1, "unchanged status is not republished")
	assert.Equal(t, ConnectionConnected, views[0].Connection)

	c.SetConnected(false)
	assert.Equal(t, ConnectionDisconnected, sink.Views()[1].Connection)
}

func TestController_StartStop(t *testing.T) {
	src := newMockSource()
	c, sink := newTestController(src, WithInterval(10*time.Millisecond))

	c.Start(context.Background())
	require.Eventually(t, func() bool {
		return len(sink.Views()) >= 2
	}, time.Second, 5*time.Millisecond)
	c.Stop()

	n := len(sink.Views())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, len(sink.Views()), "no refresh after Stop")

	assert.NotPanics(t, c.Stop)
}

func TestController_StopCancelsInFlightCycle(t *testing.T) {
	src := newMockSource()
	entered := make(chan struct{}, 1)
	src.blockCurrent = make(chan struct{})
	src.enteredCur = entered
	c, sink := newTestController(src)

	c.Start(context.Background())
	<-entered

	stopped := make(chan struct{})
	go func() {
		c.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not cancel the in-flight cycle")
	}
	assert.Empty(t, sink.Views())
}

func TestSinkFunc(t *testing.T) {
	var got View
	var s Sink = SinkFunc(func(v View) { got = v })

	s.Publish(View{Connection: ConnectionConnected})

	assert.Equal(t, ConnectionConnected, got.Connection)
}

func TestLatestView(t *testing.T) {
	var l LatestView

	_, ok := l.Get()
	assert.False(t, ok)

	l.Publish(View{Range: models.Range7Days})
	v, ok := l.Get()
	assert.True(t, ok)
	assert.Equal(t, models.Range7Days, v.Range)
}

func TestConnectionMonitor_Check(t *testing.T) {
	src := newMockSource()
	var reports []bool
	cm := NewConnectionMonitor(src, time.Hour, func(connected bool) {
		reports = append(reports, connected)
	})

	assert.True(t, cm.Check(context.Background()))

	src.mu.Lock()
	src.probeErr = errors.New("unreachable")
	src.mu.Unlock()

	assert.False(t, cm.Check(context.Background()))
	assert.Equal(t, []bool{true, false}, reports)
}

func TestConnectionMonitor_StartStop(t *testing.T) {
	src := newMockSource()
	c, sink := newTestController(src)
	cm := NewConnectionMonitor(src, 10*time.Millisecond, c.SetConnected)

	cm.Start(context.Background())
	require.Eventually(t, func() bool {
		return c.State().Connected
	}, time.Second, 5*time.Millisecond)
	cm.Stop()

	require.NotEmpty(t, sink.Views())
	assert.Equal(t, ConnectionConnected, sink.Views()[0].Connection)
	assert.NotPanics(t, cm.Stop)
}

func TestConnectionMonitor_StopWithoutStart(t *testing.T) {
	cm := NewConnectionMonitor(newMockSource(), 0, nil)

	assert.Equal(t, ProbeInterval, cm.interval)
	assert.NotPanics(t, cm.Stop)
}
