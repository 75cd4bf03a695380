// Package analysis derives display metrics from sensor data: trend direction
// over the last two samples and severity tiers for current values.
package analysis

import (
	"fmt"

	"github.com/sguter90/sensordash/pkg/models"
)

// Cutoffs partitions a metric into three tiers. Values above Alert are
// alerts, values above Warning are warnings, everything else is normal.
type Cutoffs struct {
	Warning float64 `json:"warning"`
	Alert   float64 `json:"alert"`
}

// Validate requires Warning < Alert so the tiers are contiguous
func (c Cutoffs) Validate() error {
	if c.Warning >= c.Alert {
		return fmt.Errorf("warning cutoff %v must be below alert cutoff %v", c.Warning, c.Alert)
	}
	return nil
}

// TrendBand is the dead band around zero inside which a delta is stable
type TrendBand struct {
	Up   float64 `json:"up"`
	Down float64 `json:"down"`
}

// Validate requires Down <= Up
func (b TrendBand) Validate() error {
	if b.Down > b.Up {
		return fmt.Errorf("down threshold %v must not exceed up threshold %v", b.Down, b.Up)
	}
	return nil
}

// SignalCutoffs splits WiFi RSSI (dBm) into strong, good and weak
type SignalCutoffs struct {
	Strong int `json:"strong"`
	Good   int `json:"good"`
}

// Thresholds groups every fixed cutoff the dashboard uses
type Thresholds struct {
	Temperature Cutoffs       `json:"temperature"`
	Humidity    Cutoffs       `json:"humidity"`
	HeatIndex   Cutoffs       `json:"heat_index"`
	Signal      SignalCutoffs `json:"signal"`

	TemperatureTrend TrendBand `json:"temperature_trend"`
	HumidityTrend    TrendBand `json:"humidity_trend"`
}

// DefaultThresholds returns the cutoffs the sensors are calibrated for
func DefaultThresholds() Thresholds {
	return Thresholds{
		Temperature: Cutoffs{Warning: 30, Alert: 35},
		Humidity:    Cutoffs{Warning: 75, Alert: 80},
		HeatIndex:   Cutoffs{Warning: 35, Alert: 40},
		Signal:      SignalCutoffs{Strong: -50, Good: -70},

		TemperatureTrend: TrendBand{Up: 0.5, Down: -0.5},
		HumidityTrend:    TrendBand{Up: 2, Down: -2},
	}
}

// CutoffsFor returns the cutoffs of a metric
func (t Thresholds) CutoffsFor(m models.Metric) (Cutoffs, bool) {
	switch m {
	case models.MetricTemperature:
		return t.Temperature, true
	case models.MetricHumidity:
		return t.Humidity, true
	case models.MetricHeatIndex:
		return t.HeatIndex, true
	}
	return Cutoffs{}, false
}

// BandFor returns the trend band of a charted metric
func (t Thresholds) BandFor(m models.Metric) (TrendBand, bool) {
	switch m {
	case models.MetricTemperature:
		return t.TemperatureTrend, true
	case models.MetricHumidity:
		return t.HumidityTrend, true
	}
	return TrendBand{}, false
}

// Validate checks every group of cutoffs
func (t Thresholds) Validate() error {
	for _, m := range []models.Metric{models.MetricTemperature, models.MetricHumidity, models.MetricHeatIndex} {
		c, _ := t.CutoffsFor(m)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}
	}
	if err := t.TemperatureTrend.Validate(); err != nil {
		return fmt.Errorf("temperature trend: %w", err)
	}
	if err := t.HumidityTrend.Validate(); err != nil {
		return fmt.Errorf("humidity trend: %w", err)
	}
	if t.Signal.Good >= t.Signal.Strong {
		return fmt.Errorf("signal: good cutoff %d must be below strong cutoff %d", t.Signal.Good, t.Signal.Strong)
	}
	return nil
}
