package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainlens/station-viewer/config"
	"github.com/rainlens/station-viewer/daterange"
	"github.com/rainlens/station-viewer/history"
)

type fakeStore struct {
	readings []history.RawReading
	fetchErr error
	latest   *history.RawReading
}

func (f *fakeStore) Fetch(ctx context.Context, rng daterange.Range) ([]history.RawReading, error) {
	return f.readings, f.fetchErr
}

func (f *fakeStore) LatestReading(ctx context.Context) (*history.RawReading, error) {
	return f.latest, nil
}

func floatPtr(v float64) *float64 {
	return &v
}

func sampleReading(ts string, image string) history.RawReading {
	return history.RawReading{
		Timestamp:          ts,
		Temperature:        floatPtr(21.5),
		Humidity:           floatPtr(60),
		Pressure:           floatPtr(1013.2),
		WindMax:            floatPtr(4.3),
		WindSpeed:          floatPtr(2.1),
		WindDirection:      floatPtr(180),
		AmbientTemperature: floatPtr(20.9),
		AmbientHumidity:    floatPtr(55),
		Rain:               floatPtr(0),
		UV:                 floatPtr(120),
		UVI:                floatPtr(1),
		Lux:                floatPtr(126.582),
		ImageURL:           image,
	}
}

func newTestServer(t *testing.T, store ReadingStore) *Server {
	t.Helper()
	cfg := config.Config{
		Port:           8080,
		EarliestDate:   daterange.DefaultEarliestDate,
		UTCOffsetHours: daterange.DefaultUTCOffsetHours,
		PreviewTimeout: 2 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(cfg, store, logger)
	require.NoError(t, err)
	return srv
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})
	w := doRequest(srv, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistoryValidation(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	tests := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{"missing params", "/api/v1/history", "start and end dates are required"},
		{"start too early", "/api/v1/history?start=2024-01-01&end=2025-01-10", "earliest available record"},
		{"end in future", "/api/v1/history?start=2025-01-10&end=2999-01-01", "future"},
		{"start after end", "/api/v1/history?start=2025-01-12&end=2025-01-10", "after end date"},
		{"malformed", "/api/v1/history?start=10-01-2025&end=2025-01-10", "invalid date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(srv, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
		})
	}
}

func TestHistorySuccess(t *testing.T) {
	store := &fakeStore{readings: []history.RawReading{
		sampleReading("2025-01-10T08:00:00", "https://img.example/a.jpg"),
		sampleReading("2025-01-10T08:05:00", ""),
	}}
	srv := newTestServer(t, store)

	w := doRequest(srv, http.MethodGet, "/api/v1/history?start=2025-01-10&end=2025-01-10")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Channels map[string][]struct {
				T   int64    `json:"t"`
				V   *float64 `json:"v"`
				Img string   `json:"img"`
			} `json:"channels"`
			Images []string `json:"images"`
		} `json:"data"`
		Meta struct {
			Count   int  `json:"count"`
			SameDay bool `json:"same_day"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Meta.Count)
	assert.True(t, body.Meta.SameDay)
	assert.Equal(t, []string{"https://img.example/a.jpg"}, body.Data.Images)

	require.Len(t, body.Data.Channels, 13, "twelve raw channels plus derived irradiance")
	temp := body.Data.Channels["temperature"]
	require.Len(t, temp, 2)
	require.NotNil(t, temp[0].V)
	assert.Equal(t, 21.5, *temp[0].V)

	irr := body.Data.Channels["solar_irradiance"]
	require.Len(t, irr, 2)
	require.NotNil(t, irr[0].V)
	assert.Equal(t, 1.00, *irr[0].V)
}

func TestHistoryEmptyRange(t *testing.T) {
	srv := newTestServer(t, &fakeStore{readings: []history.RawReading{}})
	w := doRequest(srv, http.MethodGet, "/api/v1/history?start=2025-01-10&end=2025-01-11")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no data found for the selected date range")
}

func TestHistoryFetchFailure(t *testing.T) {
	srv := newTestServer(t, &fakeStore{fetchErr: errors.New("connection refused")})
	w := doRequest(srv, http.MethodGet, "/api/v1/history?start=2025-01-10&end=2025-01-11")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "failed to fetch historical data")
}

func TestHistoryExport(t *testing.T) {
	store := &fakeStore{readings: []history.RawReading{
		sampleReading("2025-01-10T08:00:00", ""),
		sampleReading("2025-01-11T08:00:00", ""),
	}}
	srv := newTestServer(t, store)

	w := doRequest(srv, http.MethodGet, "/api/v1/history/export?start=2025-01-10&end=2025-01-11")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "weather_data_2025-01-10_to_2025-01-11.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,temperature,"))
	assert.NotContains(t, lines[0], "solar_irradiance")
}

func TestHistoryExportEmptyRefused(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})
	w := doRequest(srv, http.MethodGet, "/api/v1/history/export?start=2025-01-10&end=2025-01-11")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no data available")
}

func TestTimelapse(t *testing.T) {
	store := &fakeStore{readings: []history.RawReading{
		sampleReading("2025-01-10T08:00:00", "https://img.example/a.jpg"),
		sampleReading("2025-01-10T08:05:00", ""),
		sampleReading("2025-01-10T08:10:00", "https://img.example/b.jpg"),
	}}
	srv := newTestServer(t, store)

	w := doRequest(srv, http.MethodGet, "/api/v1/timelapse?start=2025-01-10&end=2025-01-10")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Frames []string `json:"frames"`
		} `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Meta.Count)
	assert.Equal(t, []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}, body.Data.Frames)
}

func TestPreview(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.jpg" {
			w.Write([]byte("jpegbytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer imgSrv.Close()

	srv := newTestServer(t, &fakeStore{})

	t.Run("missing src", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/preview")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("loadable image", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/preview?src="+imgSrv.URL+"/ok.jpg")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"state":"displayed"`)
	})

	t.Run("broken image", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/v1/preview?src="+imgSrv.URL+"/missing.jpg")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "failed to load selected image")
	})
}

func TestNow(t *testing.T) {
	t.Run("latest reading", func(t *testing.T) {
		reading := sampleReading("2026-08-30T23:55:00", "")
		srv := newTestServer(t, &fakeStore{latest: &reading})

		w := doRequest(srv, http.MethodGet, "/api/v1/now")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "2026-08-30T23:55:00")
	})

	t.Run("no data", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{})
		w := doRequest(srv, http.MethodGet, "/api/v1/now")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBearerAuth(t *testing.T) {
	cfg := config.Config{
		Port:           8080,
		BearerToken:    "sekret",
		EarliestDate:   daterange.DefaultEarliestDate,
		UTCOffsetHours: daterange.DefaultUTCOffsetHours,
		PreviewTimeout: 2 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(cfg, &fakeStore{}, logger)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/now", nil)
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/now", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "authorized but no data stored")
}
