package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rainlens/station-viewer/daterange"
)

var (
	// ErrNoData marks a successful fetch that returned nothing for the range.
	ErrNoData = errors.New("no data found for the selected date range")

	// ErrFetch wraps a collaborator failure while retrieving readings.
	ErrFetch = errors.New("failed to fetch historical data")
)

// Session owns the dataset for the most recent query. Each Refresh tags its
// fetch with a monotonically increasing token; a refresh that was superseded
// while in flight still returns its own dataset to the caller but never
// installs it, so readers only ever observe whole datasets from the newest
// request. Installed datasets are immutable, so readers need no copies.
type Session struct {
	fetcher Fetcher
	token   atomic.Uint64

	mu      sync.RWMutex
	dataset *Dataset
	rng     daterange.Range
}

// NewSession creates a Session over the given fetcher.
func NewSession(fetcher Fetcher) *Session {
	return &Session{fetcher: fetcher}
}

// Refresh fetches and transforms readings for the range, replacing the
// session dataset unless a newer Refresh started in the meantime.
func (s *Session) Refresh(ctx context.Context, rng daterange.Range) (*Dataset, error) {
	token := s.token.Add(1)

	readings, err := s.fetcher.Fetch(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if len(readings) == 0 {
		return nil, ErrNoData
	}

	dataset := Transform(readings)

	s.mu.Lock()
	if token == s.token.Load() {
		s.dataset = dataset
		s.rng = rng
	}
	s.mu.Unlock()

	return dataset, nil
}

// Current returns the installed dataset and its range. ok is false before the
// first successful Refresh.
func (s *Session) Current() (*Dataset, daterange.Range, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, daterange.Range{}, false
	}
	return s.dataset, s.rng, true
}
