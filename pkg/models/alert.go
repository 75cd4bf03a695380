package models

import "strings"

// Severity is the enumerated importance of an alert
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ParseSeverity maps the API's severity text case-insensitively. Anything
// that is not high or medium is treated as low.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Alert represents one alert as served by /getAlerts. The API uses
// PascalCase keys.
type Alert struct {
	Severity       string    `json:"Severity"`
	AlertType      string    `json:"AlertType"`
	AlertMessage   string    `json:"AlertMessage"`
	AlertTimestamp Timestamp `json:"AlertTimestamp"`
	DeviceID       string    `json:"DeviceId"`
	Location       string    `json:"Location"`
	SensorType     string    `json:"SensorType"`
	ActualValue    float64   `json:"ActualValue"`
	ThresholdValue float64   `json:"ThresholdValue"`
}

// Level returns the parsed severity of the alert
func (a Alert) Level() Severity {
	return ParseSeverity(a.Severity)
}

// AlertsResponse is the body of /getAlerts. TodayCount is optional and, when
// present, supersedes the alert count of the statistics.
type AlertsResponse struct {
	Alerts     []Alert `json:"alerts"`
	TodayCount *int    `json:"todayCount,omitempty"`
}
