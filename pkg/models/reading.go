package models

// Reading represents one snapshot of the sensor measurements as served by
// the /getCurrentData endpoint
type Reading struct {
	// Temperature
	Temperature  float64 `json:"temperature"`
	TemperatureF float64 `json:"temperatureF"`

	// Humidity in percent
	Humidity float64 `json:"humidity"`

	// Heat Index
	HeatIndexC float64 `json:"heatIndexC"`
	HeatIndexF float64 `json:"heatIndexF"`

	// Device Info
	DeviceID     string `json:"deviceId"`
	Location     string `json:"location"`
	SensorStatus string `json:"sensorStatus"`
	WifiRSSI     int    `json:"wifiRSSI"`
}

// Metric identifies one of the classified measurements of a reading
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricHeatIndex   Metric = "heat_index"
)

// Value returns the metric's value in its default unit (°C or %)
func (r Reading) Value(m Metric) float64 {
	switch m {
	case MetricTemperature:
		return r.Temperature
	case MetricHumidity:
		return r.Humidity
	case MetricHeatIndex:
		return r.HeatIndexC
	}
	return 0
}

// CelsiusToFahrenheit converts a temperature and rounds it to one decimal
func CelsiusToFahrenheit(c float64) float64 {
	return Round1(c*9/5 + 32)
}
