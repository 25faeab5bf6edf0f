package history

import (
	"context"

	"github.com/rainlens/station-viewer/daterange"
)

// RawReading is one multi-metric sample as delivered by the data source.
// Scalars are pointers so a missing value survives the boundary instead of
// collapsing to zero; the transformer turns nil into NaN.
type RawReading struct {
	Timestamp          string   `json:"timestamp"`
	Temperature        *float64 `json:"temperature"`
	Humidity           *float64 `json:"humidity"`
	Pressure           *float64 `json:"pressure"`
	WindMax            *float64 `json:"wind_max"`
	WindSpeed          *float64 `json:"wind_speed"`
	WindDirection      *float64 `json:"wind_direction"`
	AmbientTemperature *float64 `json:"ambient_temperature"`
	AmbientHumidity    *float64 `json:"ambient_humidity"`
	Rain               *float64 `json:"rain"`
	UV                 *float64 `json:"uv"`
	UVI                *float64 `json:"uvi"`
	Lux                *float64 `json:"lux"`
	ImageURL           string   `json:"image_url,omitempty"`
}

// scalar returns the reading's value for a raw metric, or nil when absent.
func (r RawReading) scalar(m Metric) *float64 {
	switch m {
	case MetricTemperature:
		return r.Temperature
	case MetricHumidity:
		return r.Humidity
	case MetricPressure:
		return r.Pressure
	case MetricWindMax:
		return r.WindMax
	case MetricWindSpeed:
		return r.WindSpeed
	case MetricWindDirection:
		return r.WindDirection
	case MetricAmbientTemperature:
		return r.AmbientTemperature
	case MetricAmbientHumidity:
		return r.AmbientHumidity
	case MetricRain:
		return r.Rain
	case MetricUV:
		return r.UV
	case MetricUVI:
		return r.UVI
	case MetricLux:
		return r.Lux
	default:
		return nil
	}
}

// Fetcher retrieves raw readings for a validated range. An empty slice means
// no data in range, which is not an error. Implementations return readings in
// the source's chronological order; the transformer does not re-sort.
type Fetcher interface {
	Fetch(ctx context.Context, rng daterange.Range) ([]RawReading, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, rng daterange.Range) ([]RawReading, error)

func (f FetcherFunc) Fetch(ctx context.Context, rng daterange.Range) ([]RawReading, error) {
	return f(ctx, rng)
}
