package models

import "math"

// Statistics represents the aggregates served by /getStatistics
type Statistics struct {
	AvgTemp     float64 `json:"avgTemp"`
	MaxTemp     float64 `json:"maxTemp"`
	AvgHumidity float64 `json:"avgHumidity"`
	AlertCount  int     `json:"alertCount"`
	DataPoints  int     `json:"dataPoints"`
	Uptime      float64 `json:"uptime"`
}

// StatisticsFromSeries computes the aggregates of a series the way the demo
// dashboard does it: average temperature to one decimal, maximum
// temperature, average humidity to an integer. An empty series yields zeros.
func StatisticsFromSeries(s HistoricalSeries) Statistics {
	var stats Statistics
	if len(s.Temperature) > 0 {
		sum := 0.0
		maxTemp := math.Inf(-1)
		for _, t := range s.Temperature {
			sum += t
			if t > maxTemp {
				maxTemp = t
			}
		}
		stats.AvgTemp = Round1(sum / float64(len(s.Temperature)))
		stats.MaxTemp = maxTemp
	}
	if len(s.Humidity) > 0 {
		sum := 0.0
		for _, h := range s.Humidity {
			sum += h
		}
		stats.AvgHumidity = math.Round(sum / float64(len(s.Humidity)))
	}
	return stats
}
