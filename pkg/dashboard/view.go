package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sguter90/sensordash/pkg/analysis"
	"github.com/sguter90/sensordash/pkg/models"
)

const (
	// TimestampFormat is used for absolute times
	TimestampFormat = "1/2/2006, 3:04:05 PM"

	NoAlertsTitle   = "No Recent Alerts"
	NoAlertsMessage = "All systems operating normally"

	ConnectionConnected    = "Connected"
	ConnectionDisconnected = "Disconnected"

	unknown = "Unknown"
)

// MetricView is one classified measurement
type MetricView struct {
	Value      string             `json:"value"`
	Fahrenheit string             `json:"fahrenheit,omitempty"`
	Tier       analysis.Tier      `json:"tier"`
	Direction  analysis.Direction `json:"direction,omitempty"`
	Trend      string             `json:"trend,omitempty"`
}

// SystemView describes the sensor device
type SystemView struct {
	DeviceID     string                  `json:"deviceId"`
	Location     string                  `json:"location"`
	SensorStatus string                  `json:"sensorStatus"`
	RSSI         int                     `json:"rssi"`
	Signal       analysis.SignalStrength `json:"signal"`
	Wifi         string                  `json:"wifi"`
}

// StatisticsView holds the formatted aggregates
type StatisticsView struct {
	AvgTemp     string `json:"avgTemp"`
	MaxTemp     string `json:"maxTemp"`
	AvgHumidity string `json:"avgHumidity"`
	AlertCount  string `json:"alertCount"`
	DataPoints  string `json:"dataPoints"`
	Uptime      string `json:"uptime"`
}

// AlertView is one alert card
type AlertView struct {
	Title     string          `json:"title"`
	Severity  models.Severity `json:"severity"`
	Label     string          `json:"label"`
	Message   string          `json:"message"`
	Detail    string          `json:"detail"`
	TimeAgo   string          `json:"timeAgo"`
	Timestamp string          `json:"timestamp"`
	Location  string          `json:"location"`
}

// EmptyAlertsView replaces the alert list when there are no alerts
type EmptyAlertsView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// View is the presentation model built from a State
type View struct {
	Temperature MetricView              `json:"temperature"`
	Humidity    MetricView              `json:"humidity"`
	HeatIndex   MetricView              `json:"heatIndex"`
	System      SystemView              `json:"system"`
	Statistics  StatisticsView          `json:"statistics"`
	Alerts      []AlertView             `json:"alerts"`
	NoAlerts    *EmptyAlertsView        `json:"noAlerts,omitempty"`
	Chart       models.HistoricalSeries `json:"chart"`
	Range       models.TimeRange        `json:"range"`
	LastUpdated string                  `json:"lastUpdated"`
	Connected   bool                    `json:"connected"`
	Connection  string                  `json:"connection"`
	Banner      string                  `json:"banner,omitempty"`

	// Reading is the raw reading the view was built from. Offline is set
	// when it is the fallback reading.
	Reading models.Reading `json:"reading"`
	Offline bool           `json:"offline"`
}

// BuildView derives every display string from s. It is pure: now is the
// only time source.
func BuildView(s State, t analysis.Thresholds, now time.Time) View {
	r := s.Current
	tiers := analysis.ClassifyReading(r, t)
	trends := analysis.ComputeTrends(s.Historical, t)

	v := View{
		Temperature: MetricView{
			Value:      formatNumber(r.Temperature) + "°C",
			Fahrenheit: formatNumber(r.TemperatureF) + "°F",
			Tier:       tiers.Temperature,
			Direction:  trends.Temperature.Direction,
			Trend:      trends.Temperature.Describe(models.MetricTemperature),
		},
		Humidity: MetricView{
			Value:     formatNumber(r.Humidity) + "%",
			Tier:      tiers.Humidity,
			Direction: trends.Humidity.Direction,
			Trend:     trends.Humidity.Describe(models.MetricHumidity),
		},
		HeatIndex: MetricView{
			Value:      formatNumber(r.HeatIndexC) + "°C",
			Fahrenheit: formatNumber(r.HeatIndexF) + "°F",
			Tier:       tiers.HeatIndex,
		},
		System:     buildSystem(r, t.Signal),
		Statistics: buildStatistics(s.Statistics, s.Alerts.TodayCount),
		Alerts:     make([]AlertView, 0, len(s.Alerts.Alerts)),
		Chart:      s.Historical.Clone(),
		Range:      s.Range,
		Connected:  s.Connected,
		Connection: ConnectionDisconnected,
		Reading:    r,
		Offline:    s.Offline,
	}

	for _, a := range s.Alerts.Alerts {
		v.Alerts = append(v.Alerts, buildAlert(a, now))
	}
	if len(v.Alerts) == 0 {
		v.NoAlerts = &EmptyAlertsView{Title: NoAlertsTitle, Message: NoAlertsMessage}
	}

	if s.Connected {
		v.Connection = ConnectionConnected
	}
	if !s.LastUpdated.IsZero() {
		v.LastUpdated = "Last Updated: " + s.LastUpdated.Format(TimestampFormat)
	}
	if s.Banner.Active(now) {
		v.Banner = s.Banner.Message
	}

	return v
}

func buildSystem(r models.Reading, c analysis.SignalCutoffs) SystemView {
	rssi := analysis.NormalizeRSSI(r.WifiRSSI)
	signal := analysis.ClassifySignal(rssi, c)
	return SystemView{
		DeviceID:     orUnknown(r.DeviceID),
		Location:     orUnknown(r.Location),
		SensorStatus: orUnknown(r.SensorStatus),
		RSSI:         rssi,
		Signal:       signal,
		Wifi:         fmt.Sprintf("%d dBm %s", rssi, signal),
	}
}

func buildStatistics(st models.Statistics, todayCount *int) StatisticsView {
	alertCount := st.AlertCount
	if todayCount != nil {
		alertCount = *todayCount
	}
	return StatisticsView{
		AvgTemp:     formatNumber(st.AvgTemp) + "°C",
		MaxTemp:     formatNumber(st.MaxTemp) + "°C",
		AvgHumidity: formatNumber(st.AvgHumidity) + "%",
		AlertCount:  strconv.Itoa(alertCount),
		DataPoints:  FormatThousands(st.DataPoints),
		Uptime:      formatNumber(st.Uptime) + "%",
	}
}

func buildAlert(a models.Alert, now time.Time) AlertView {
	timeAgo, timestamp := "", a.AlertTimestamp.Raw
	if at := a.AlertTimestamp; at.Valid() {
		timeAgo, timestamp = TimeAgo(at.Time, now), at.Format(TimestampFormat)
	}

	return AlertView{
		Title:     AlertTitle(a),
		Severity:  a.Level(),
		Label:     a.Severity,
		Message:   a.AlertMessage,
		Detail:    fmt.Sprintf("%s: %s (Threshold: %s)", a.SensorType, formatNumber(a.ActualValue), formatNumber(a.ThresholdValue)),
		TimeAgo:   timeAgo,
		Timestamp: timestamp,
		Location:  orUnknown(a.Location),
	}
}

// AlertTitle is the alert type with every underscore turned into a space,
// followed by the device. The browser dashboard this replaces only turned
// the first underscore, so "High_Temperature_Alert" used to read
// "High Temperature_Alert".
func AlertTitle(a models.Alert) string {
	return strings.ReplaceAll(a.AlertType, "_", " ") + " - " + a.DeviceID
}

// TimeAgo describes how long before now t was
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case diff < time.Minute:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%d min ago", mins)
	case hours < 24:
		return plural(hours, "hour") + " ago"
	default:
		return plural(days, "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// FormatThousands prints n with comma separators, e.g. 1,440
func FormatThousands(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// formatNumber prints a value the way the API sent it, without padding
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
