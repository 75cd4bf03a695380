package fetcher

import (
	"github.com/sguter90/sensordash/pkg/analysis"
	"github.com/sguter90/sensordash/pkg/models"
)

// FallbackDeviceID is reported by the fallback reading
const FallbackDeviceID = "esp32-sensor-01"

// FallbackReading is shown when the current reading could not be fetched
func FallbackReading() models.Reading {
	return models.Reading{
		DeviceID:     FallbackDeviceID,
		Location:     "Unknown",
		SensorStatus: "Offline",
		WifiRSSI:     analysis.MissingRSSI,
	}
}

// FallbackSeries is an empty series
func FallbackSeries() models.HistoricalSeries {
	return models.EmptySeries()
}

// FallbackStatistics has every aggregate at zero
func FallbackStatistics() models.Statistics {
	return models.Statistics{}
}

// FallbackAlerts is an empty alert list without a today count
func FallbackAlerts() models.AlertsResponse {
	return models.AlertsResponse{Alerts: []models.Alert{}}
}
