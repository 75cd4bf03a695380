package models

import (
	"fmt"
	"math"
)

// HistoricalSeries holds the charted window of past readings as three
// parallel sequences. Index i of every sequence refers to the same sample.
type HistoricalSeries struct {
	Labels      []string  `json:"labels"`
	Temperature []float64 `json:"temperature"`
	Humidity    []float64 `json:"humidity"`
}

// Len returns the number of samples in the series
func (s HistoricalSeries) Len() int {
	return len(s.Labels)
}

// Validate checks that all three sequences have the same length
func (s HistoricalSeries) Validate() error {
	if len(s.Temperature) != len(s.Labels) || len(s.Humidity) != len(s.Labels) {
		return fmt.Errorf("series length mismatch: labels=%d temperature=%d humidity=%d",
			len(s.Labels), len(s.Temperature), len(s.Humidity))
	}
	return nil
}

// Append adds the newest sample and evicts the oldest ones while the series
// is longer than window. A window <= 0 keeps every sample.
func (s *HistoricalSeries) Append(label string, temperature, humidity float64, window int) {
	s.Labels = append(s.Labels, label)
	s.Temperature = append(s.Temperature, temperature)
	s.Humidity = append(s.Humidity, humidity)

	if window <= 0 {
		return
	}
	if excess := len(s.Labels) - window; excess > 0 {
		s.Labels = s.Labels[excess:]
		s.Temperature = s.Temperature[excess:]
		s.Humidity = s.Humidity[excess:]
	}
}

// Values returns the sequence for the given metric. Heat index is not charted.
func (s HistoricalSeries) Values(m Metric) []float64 {
	switch m {
	case MetricTemperature:
		return s.Temperature
	case MetricHumidity:
		return s.Humidity
	}
	return nil
}

// Clone returns a deep copy so callers can hand the series out without
// sharing the backing arrays
func (s HistoricalSeries) Clone() HistoricalSeries {
	return HistoricalSeries{
		Labels:      append([]string{}, s.Labels...),
		Temperature: append([]float64{}, s.Temperature...),
		Humidity:    append([]float64{}, s.Humidity...),
	}
}

// EmptySeries returns a series with non-nil empty sequences, which encode as
// [] instead of null
func EmptySeries() HistoricalSeries {
	return HistoricalSeries{
		Labels:      []string{},
		Temperature: []float64{},
		Humidity:    []float64{},
	}
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Last2 returns the two newest values of the metric. ok is false when the
// series holds fewer than two samples.
func (s HistoricalSeries) Last2(m Metric) (prev, last float64, ok bool) {
	values := s.Values(m)
	if len(values) < 2 {
		return 0, 0, false
	}
	return values[len(values)-2], values[len(values)-1], true
}
