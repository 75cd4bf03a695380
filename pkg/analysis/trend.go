package analysis

import (
	"fmt"
	"math"

	"github.com/sguter90/sensordash/pkg/models"
)

// Direction is the classified movement between the last two samples
type Direction string

const (
	DirectionRising  Direction = "rising"
	DirectionFalling Direction = "falling"
	DirectionStable  Direction = "stable"
	// DirectionUnknown means the series has fewer than two samples
	DirectionUnknown Direction = "unknown"
)

// Trend is the direction and the raw delta of the last two samples
type Trend struct {
	Direction Direction `json:"direction"`
	Delta     float64   `json:"delta"`
}

// ClassifyDelta applies the band to a delta
func ClassifyDelta(delta float64, band TrendBand) Direction {
	switch {
	case delta > band.Up:
		return DirectionRising
	case delta < band.Down:
		return DirectionFalling
	default:
		return DirectionStable
	}
}

// ComputeTrend compares the two newest values of metric m in s. Everything
// before them is ignored.
func ComputeTrend(s models.HistoricalSeries, m models.Metric, band TrendBand) Trend {
	prev, last, ok := s.Last2(m)
	if !ok {
		return Trend{Direction: DirectionUnknown}
	}

	delta := last - prev
	return Trend{Direction: ClassifyDelta(delta, band), Delta: delta}
}

// Trends holds the trend of every charted metric
type Trends struct {
	Temperature Trend `json:"temperature"`
	Humidity    Trend `json:"humidity"`
}

// ComputeTrends derives the temperature and humidity trends of a series
func ComputeTrends(s models.HistoricalSeries, t Thresholds) Trends {
	return Trends{
		Temperature: metricTrend(s, models.MetricTemperature, t),
		Humidity:    metricTrend(s, models.MetricHumidity, t),
	}
}

func metricTrend(s models.HistoricalSeries, m models.Metric, t Thresholds) Trend {
	band, ok := t.BandFor(m)
	if !ok {
		return Trend{Direction: DirectionUnknown}
	}
	return ComputeTrend(s, m, band)
}

// unitFormat is how a metric's values are printed
type unitFormat struct {
	decimals int
	unit     string
}

var metricFormats = map[models.Metric]unitFormat{
	models.MetricTemperature: {decimals: 1, unit: "°C"},
	models.MetricHeatIndex:   {decimals: 1, unit: "°C"},
	models.MetricHumidity:    {decimals: 0, unit: "%"},
}

// FormatDelta prints a delta with an explicit sign in the metric's unit,
// e.g. +0.8°C or -3%
func FormatDelta(delta float64, m models.Metric) string {
	f, ok := metricFormats[m]
	if !ok {
		f = unitFormat{decimals: 1}
	}

	rounded := roundTo(delta, f.decimals)
	sign := ""
	if rounded >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.*f%s", sign, f.decimals, rounded, f.unit)
}

// Describe returns the sentence shown under the current value: the signed
// delta for rising and falling trends, Stable otherwise. Unknown trends
// return an empty string.
func (t Trend) Describe(m models.Metric) string {
	switch t.Direction {
	case DirectionRising, DirectionFalling:
		return FormatDelta(t.Delta, m) + " from last reading"
	case DirectionStable:
		return "Stable"
	default:
		return ""
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		// avoid printing -0.0
		return 0
	}
	return r
}
