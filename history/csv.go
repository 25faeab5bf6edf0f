package history

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/rainlens/station-viewer/daterange"
)

// ErrNoDataset is returned when an export is attempted with nothing to export.
var ErrNoDataset = errors.New("no data available")

// ExportCSV serializes the dataset as a UTF-8 CSV document: a header row, then
// one row per reading with the timestamp in RFC3339 instant form followed by
// the twelve raw metrics in declared order. The derived irradiance channel is
// display-only and is not exported. An empty dataset is refused rather than
// producing a header-only document.
func ExportCSV(d *Dataset, _ daterange.Range) ([]byte, error) {
	if d == nil || d.Len() == 0 {
		return nil, ErrNoDataset
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(Metrics)+1)
	header = append(header, "timestamp")
	for _, m := range Metrics {
		header = append(header, string(m))
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(Metrics)+1)
	for i := 0; i < d.Len(); i++ {
		row[0] = d.times[i].Format(time.RFC3339)
		for j, m := range Metrics {
			if v, ok := d.Value(m, i); ok {
				row[j+1] = formatCell(v)
			} else {
				// Alignment should make this unreachable; emit an empty cell
				// instead of failing the export.
				row[j+1] = ""
			}
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename returns the download filename for a range's export.
func ExportFilename(rng daterange.Range) string {
	return fmt.Sprintf("weather_data_%s_to_%s.csv", rng.StartDate(), rng.EndDate())
}
