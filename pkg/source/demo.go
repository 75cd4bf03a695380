package source

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sguter90/sensordash/pkg/models"
)

// NameDemo identifies the fabricated demo source
const NameDemo = "demo"

const (
	// DemoWindow is the number of hourly samples the demo keeps
	DemoWindow = 24

	// DemoLabelFormat is how sample times are labelled
	DemoLabelFormat = "03:04 PM"

	demoDeviceID = "esp32-sensor-01"
	demoUptime   = 0.95
)

// ErrDemoOffline is returned by Probe when the simulated link is down
var ErrDemoOffline = errors.New("demo source: simulated connection loss")

// Demo fabricates readings client-side instead of calling an API
type Demo struct {
	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	series models.HistoricalSeries

	probes       int
	probesOnline int
}

// DemoOption configures a Demo source
type DemoOption func(*Demo)

// WithRand sets the random generator, e.g. a seeded one for tests
func WithRand(rng *rand.Rand) DemoOption {
	return func(d *Demo) {
		d.rng = rng
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) DemoOption {
	return func(d *Demo) {
		d.now = now
	}
}

// NewDemo creates a demo source seeded with 24 hourly samples
func NewDemo(opts ...DemoOption) *Demo {
	d := &Demo{
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.series = d.initialSeries()
	return d
}

// initialSeries generates the hourly baseline with some variation
func (d *Demo) initialSeries() models.HistoricalSeries {
	now := d.now()
	s := models.EmptySeries()
	for i := DemoWindow - 1; i >= 0; i-- {
		at := now.Add(-time.Duration(i) * time.Hour)
		temp := 25 + math.Sin(float64(i)*0.3)*3 + (d.rng.Float64()-0.5)*2
		humidity := 65 + math.Cos(float64(i)*0.4)*8 + (d.rng.Float64()-0.5)*5
		s.Append(at.Format(DemoLabelFormat), models.Round1(temp), math.Round(humidity), DemoWindow)
	}
	return s
}

// Name returns "demo"
func (d *Demo) Name() string {
	return NameDemo
}

// GetCurrentData fabricates a new reading and appends it to the window,
// evicting the oldest sample
func (d *Demo) GetCurrentData(ctx context.Context) (*models.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	temp := models.Round1(25 + (d.rng.Float64()-0.5)*0.5)
	humidity := math.Round(65 + (d.rng.Float64()-0.5)*3)
	heatIndex := models.Round1(temp + 0.5*humidity/10)

	reading := &models.Reading{
		Temperature:  temp,
		TemperatureF: models.CelsiusToFahrenheit(temp),
		Humidity:     humidity,
		HeatIndexC:   heatIndex,
		HeatIndexF:   models.CelsiusToFahrenheit(heatIndex),
		DeviceID:     demoDeviceID,
		Location:     "Plant_Floor_1",
		SensorStatus: "DHT11 Active",
		WifiRSSI:     -45,
	}

	d.series.Append(d.now().Format(DemoLabelFormat), temp, humidity, DemoWindow)

	return reading, nil
}

// GetHistoricalData returns the samples covering the last hours. Samples are
// hourly, so a range of n hours spans n+1 samples.
func (d *Demo) GetHistoricalData(ctx context.Context, hours int) (*models.HistoricalSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.series.Clone()
	if n := hours + 1; hours > 0 && n < s.Len() {
		skip := s.Len() - n
		s.Labels = s.Labels[skip:]
		s.Temperature = s.Temperature[skip:]
		s.Humidity = s.Humidity[skip:]
	}
	return &s, nil
}

// GetStatistics computes the aggregates from the current window
func (d *Demo) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	stats := models.StatisticsFromSeries(d.series)
	stats.AlertCount = 2
	stats.DataPoints = 1440
	stats.Uptime = 100
	if d.probes > 0 {
		stats.Uptime = models.Round1(float64(d.probesOnline) / float64(d.probes) * 100)
	}
	return &stats, nil
}

// GetAlerts returns a fixed set of sample alerts
func (d *Demo) GetAlerts(ctx context.Context) (*models.AlertsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := d.now()
	return &models.AlertsResponse{
		Alerts: []models.Alert{
			{
				Severity:       string(models.SeverityHigh),
				AlertType:      "High_Temperature_Alert",
				AlertMessage:   "Temperature exceeded 35°C",
				AlertTimestamp: models.NewTimestamp(now.Add(-2 * time.Hour)),
				DeviceID:       demoDeviceID,
				Location:       "Plant_Floor_1",
				SensorType:     "Temperature",
				ActualValue:    35.4,
				ThresholdValue: 35,
			},
			{
				Severity:       string(models.SeverityMedium),
				AlertType:      "Humidity_Warning",
				AlertMessage:   "Humidity approaching upper threshold",
				AlertTimestamp: models.NewTimestamp(now.Add(-4 * time.Hour)),
				DeviceID:       demoDeviceID,
				Location:       "Plant_Floor_1",
				SensorType:     "Humidity",
				ActualValue:    77,
				ThresholdValue: 75,
			},
			{
				Severity:       string(models.SeverityLow),
				AlertType:      "System_Notice",
				AlertMessage:   "Daily data backup completed",
				AlertTimestamp: models.NewTimestamp(now.Add(-6 * time.Hour)),
				DeviceID:       "system",
			},
		},
	}, nil
}

// Probe simulates a link that is up 95% of the time
func (d *Demo) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.probes++
	if d.rng.Float64() < demoUptime {
		d.probesOnline++
		return nil
	}
	return ErrDemoOffline
}
