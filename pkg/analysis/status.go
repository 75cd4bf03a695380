package analysis

import "github.com/sguter90/sensordash/pkg/models"

// Tier is the severity tier of a current value
type Tier string

const (
	TierNormal  Tier = "normal"
	TierWarning Tier = "warning"
	TierAlert   Tier = "alert"
)

// Classify maps a value to its tier. Both comparisons are strict, so a value
// equal to a cutoff stays in the lower tier.
func Classify(value float64, c Cutoffs) Tier {
	switch {
	case value > c.Alert:
		return TierAlert
	case value > c.Warning:
		return TierWarning
	default:
		return TierNormal
	}
}

// Classification holds the tier of every classified metric of a reading
type Classification struct {
	Temperature Tier `json:"temperature"`
	Humidity    Tier `json:"humidity"`
	HeatIndex   Tier `json:"heat_index"`
}

// ClassifyReading classifies temperature, humidity and heat index
func ClassifyReading(r models.Reading, t Thresholds) Classification {
	return Classification{
		Temperature: Classify(r.Temperature, t.Temperature),
		Humidity:    Classify(r.Humidity, t.Humidity),
		HeatIndex:   Classify(r.HeatIndexC, t.HeatIndex),
	}
}

// Tier returns the tier of one metric
func (c Classification) Tier(m models.Metric) Tier {
	switch m {
	case models.MetricTemperature:
		return c.Temperature
	case models.MetricHumidity:
		return c.Humidity
	case models.MetricHeatIndex:
		return c.HeatIndex
	}
	return ""
}

// SignalStrength is the WiFi quality bucket of a reading
type SignalStrength string

const (
	SignalStrong SignalStrength = "Strong"
	SignalGood   SignalStrength = "Good"
	SignalWeak   SignalStrength = "Weak"
)

// MissingRSSI replaces an absent (zero) RSSI
const MissingRSSI = -100

// NormalizeRSSI treats a zero RSSI as missing
func NormalizeRSSI(rssi int) int {
	if rssi == 0 {
		return MissingRSSI
	}
	return rssi
}

// ClassifySignal buckets an RSSI. A zero RSSI is treated as missing.
func ClassifySignal(rssi int, c SignalCutoffs) SignalStrength {
	rssi = NormalizeRSSI(rssi)
	switch {
	case rssi > c.Strong:
		return SignalStrong
	case rssi > c.Good:
		return SignalGood
	default:
		return SignalWeak
	}
}
