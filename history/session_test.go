package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainlens/station-viewer/daterange"
)

func TestSessionRefresh(t *testing.T) {
	fetcher := FetcherFunc(func(ctx context.Context, rng daterange.Range) ([]RawReading, error) {
		return []RawReading{testReading("2025-01-10T08:00:00", 10, "")}, nil
	})
	s := NewSession(fetcher)

	_, _, ok := s.Current()
	assert.False(t, ok, "no dataset before the first refresh")

	rng := testRange(t)
	d, err := s.Refresh(context.Background(), rng)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	current, currentRng, ok := s.Current()
	require.True(t, ok)
	assert.Same(t, d, current)
	assert.Equal(t, rng.StartDate(), currentRng.StartDate())
}

func TestSessionRefreshErrors(t *testing.T) {
	t.Run("fetch failure", func(t *testing.T) {
		fetcher := FetcherFunc(func(ctx context.Context, rng daterange.Range) ([]RawReading, error) {
			return nil, errors.New("connection reset")
		})
		s := NewSession(fetcher)

		_, err := s.Refresh(context.Background(), testRange(t))
		assert.ErrorIs(t, err, ErrFetch)
		_, _, ok := s.Current()
		assert.False(t, ok)
	})

	t.Run("empty result", func(t *testing.T) {
		fetcher := FetcherFunc(func(ctx context.Context, rng daterange.Range) ([]RawReading, error) {
			return []RawReading{}, nil
		})
		s := NewSession(fetcher)

		_, err := s.Refresh(context.Background(), testRange(t))
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestSessionStaleRefreshNotInstalled(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0

	fetcher := FetcherFunc(func(ctx context.Context, rng daterange.Range) ([]RawReading, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return []RawReading{testReading("2025-01-10T08:00:00", 1, "")}, nil
		}
		return []RawReading{
			testReading("2025-01-10T08:00:00", 2, ""),
			testReading("2025-01-10T08:05:00", 2, ""),
		}, nil
	})

	s := NewSession(fetcher)
	rng := testRange(t)

	firstDone := make(chan *Dataset, 1)
	go func() {
		d, err := s.Refresh(context.Background(), rng)
		if err != nil {
			firstDone <- nil
			return
		}
		firstDone <- d
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch never started")
	}

	// A second query supersedes the in-flight one.
	second, err := s.Refresh(context.Background(), rng)
	require.NoError(t, err)

	close(release)
	first := <-firstDone
	require.NotNil(t, first)

	// The slow fetch still returned its own dataset to its caller, but the
	// installed dataset belongs to the newest request.
	assert.Equal(t, 1, first.Len())
	current, _, ok := s.Current()
	require.True(t, ok)
	assert.Same(t, second, current)
	assert.Equal(t, 2, current.Len())
}
