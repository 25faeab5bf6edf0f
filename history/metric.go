package history

// Metric identifies one physical measurement channel.
type Metric string

const (
	MetricTemperature        Metric = "temperature"
	MetricHumidity           Metric = "humidity"
	MetricPressure           Metric = "pressure"
	MetricWindMax            Metric = "wind_max"
	MetricWindSpeed          Metric = "wind_speed"
	MetricWindDirection      Metric = "wind_direction"
	MetricAmbientTemperature Metric = "ambient_temperature"
	MetricAmbientHumidity    Metric = "ambient_humidity"
	MetricRain               Metric = "rain"
	MetricUV                 Metric = "uv"
	MetricUVI                Metric = "uvi"
	MetricLux                Metric = "lux"

	// MetricSolarIrradiance is derived from lux for display only; it is never
	// part of the CSV export.
	MetricSolarIrradiance Metric = "solar_irradiance"
)

// Metrics lists the twelve raw metrics in their declared order. This order is
// the CSV column order and must not change.
var Metrics = []Metric{
	MetricTemperature,
	MetricHumidity,
	MetricPressure,
	MetricWindMax,
	MetricWindSpeed,
	MetricWindDirection,
	MetricAmbientTemperature,
	MetricAmbientHumidity,
	MetricRain,
	MetricUV,
	MetricUVI,
	MetricLux,
}

// LuxToWattsPerSqm converts rounded lux to solar irradiance in W/m².
const LuxToWattsPerSqm = 0.0079
