package history

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// ChannelPoint is one sample of one metric's series. Value is rounded to two
// decimals; a reading with no usable scalar yields NaN, which marshals as
// null so chart payloads stay valid JSON.
type ChannelPoint struct {
	Time     time.Time
	Value    float64
	ImageRef string
}

func (p ChannelPoint) MarshalJSON() ([]byte, error) {
	type wire struct {
		T   int64    `json:"t"`
		V   *float64 `json:"v"`
		Img string   `json:"img,omitempty"`
	}
	w := wire{T: p.Time.UnixMilli(), Img: p.ImageRef}
	if !math.IsNaN(p.Value) {
		v := p.Value
		w.V = &v
	}
	return json.Marshal(w)
}

// Dataset holds the aligned per-metric series for one fetched range. It is
// built in a single pass over the reading list: one shared slice of instants
// plus one value slice per metric, all indexed identically, so channels
// cannot drift out of alignment. A Dataset is immutable once constructed.
type Dataset struct {
	times  []time.Time
	values map[Metric][]float64
	images []string
}

// Transform converts raw readings into an aligned Dataset. Readings are taken
// in the given order, one point per reading per metric. The derived
// solar irradiance channel is computed from the already-rounded lux values;
// converting before rounding would change the result.
func Transform(readings []RawReading) *Dataset {
	n := len(readings)
	d := &Dataset{
		times:  make([]time.Time, n),
		values: make(map[Metric][]float64, len(Metrics)+1),
		images: make([]string, n),
	}
	for _, m := range Metrics {
		d.values[m] = make([]float64, n)
	}
	d.values[MetricSolarIrradiance] = make([]float64, n)

	for i, r := range readings {
		d.times[i] = parseNaiveTimestamp(r.Timestamp)
		d.images[i] = r.ImageURL
		for _, m := range Metrics {
			d.values[m][i] = round2(r.scalar(m))
		}
		d.values[MetricSolarIrradiance][i] = roundFloat2(d.values[MetricLux][i] * LuxToWattsPerSqm)
	}
	return d
}

// Len returns the number of readings in the dataset.
func (d *Dataset) Len() int {
	return len(d.times)
}

// Times returns the shared instant sequence. Callers must not modify it.
func (d *Dataset) Times() []time.Time {
	return d.times
}

// Value returns the value of a metric at index i. ok is false when the metric
// is unknown or the index is out of bounds.
func (d *Dataset) Value(m Metric, i int) (float64, bool) {
	vs, found := d.values[m]
	if !found || i < 0 || i >= len(vs) {
		return 0, false
	}
	return vs[i], true
}

// Channel materializes the aligned point series for one metric. All channels
// of a dataset share the same Time and ImageRef at each index.
func (d *Dataset) Channel(m Metric) []ChannelPoint {
	vs, found := d.values[m]
	if !found {
		return nil
	}
	points := make([]ChannelPoint, len(vs))
	for i, v := range vs {
		points[i] = ChannelPoint{Time: d.times[i], Value: v, ImageRef: d.images[i]}
	}
	return points
}

// Images returns the ordered non-empty image references of the dataset, for
// timelapse playback. Readings without an image are dropped, not represented
// as placeholders.
func (d *Dataset) Images() []string {
	out := make([]string, 0, len(d.images))
	for _, ref := range d.images {
		if ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

// parseNaiveTimestamp parses a receiver-local wall-clock string as a UTC
// instant. Any trailing zone marker is stripped first; honoring it would
// shift every point, so the source's naive convention is kept as-is.
func parseNaiveTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	s = stripZoneMarker(s)

	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

// stripZoneMarker removes a trailing Z or ±hh:mm / ±hhmm offset if present.
func stripZoneMarker(s string) string {
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		return s[:len(s)-1]
	}
	// An offset sign past position 10 belongs to a zone, not the date.
	for i := len(s) - 1; i > 10; i-- {
		c := s[i]
		if c == '+' || c == '-' {
			return s[:i]
		}
		if c != ':' && (c < '0' || c > '9') {
			break
		}
	}
	return s
}

// round2 rounds a scalar to two decimal places, half away from zero. A nil
// scalar becomes NaN; consumers tolerate the degenerate point rather than
// failing the whole transform.
func round2(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return roundFloat2(*v)
}

func roundFloat2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

// formatCell renders a value for CSV output with exactly two decimals.
func formatCell(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
