package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rainlens/station-viewer/history"
)

// ErrLoadFailed is the user-visible failure for a selected image that could
// not be loaded.
var ErrLoadFailed = errors.New("failed to load selected image")

// Outcome names the terminal state of one selection.
type Outcome int

const (
	// Cleared means no image is displayed.
	Cleared Outcome = iota
	// Displayed means the selected image loaded and is now shown.
	Displayed
	// Failed means the load failed; the display stays cleared.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Cleared:
		return "cleared"
	case Displayed:
		return "displayed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Selection is the resolved result of one Select call.
type Selection struct {
	Outcome  Outcome
	ImageRef string
	Err      error
}

// Selector turns chart-point selections into display state with
// preload-before-display semantics. Selections may overlap; a generation
// counter captured at Select time and compared at resume time makes the most
// recently initiated load the only one that can touch display state.
type Selector struct {
	loader Loader

	mu      sync.Mutex
	gen     uint64
	display Selection
}

// NewSelector builds a Selector over the given loader.
func NewSelector(loader Loader) *Selector {
	return &Selector{loader: loader, display: Selection{Outcome: Cleared}}
}

// Select resolves a chart point into a displayable image. The returned
// channel is buffered and delivers exactly one Selection. A point without an
// image resolves to Cleared before Select returns; a point with an image
// resolves after the out-of-band load finishes. A stale load (superseded by a
// newer Select) still reports its own outcome but never changes display
// state.
func (s *Selector) Select(ctx context.Context, point history.ChannelPoint) <-chan Selection {
	done := make(chan Selection, 1)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if point.ImageRef == "" {
		s.display = Selection{Outcome: Cleared}
		s.mu.Unlock()
		done <- Selection{Outcome: Cleared}
		return done
	}
	s.mu.Unlock()

	go func() {
		err := s.loader.Load(ctx, point.ImageRef)

		s.mu.Lock()
		current := gen == s.gen
		if current {
			if err == nil {
				s.display = Selection{Outcome: Displayed, ImageRef: point.ImageRef}
			} else {
				s.display = Selection{Outcome: Cleared}
			}
		}
		s.mu.Unlock()

		if err != nil {
			done <- Selection{Outcome: Failed, ImageRef: point.ImageRef, Err: fmt.Errorf("%w: %v", ErrLoadFailed, err)}
			return
		}
		done <- Selection{Outcome: Displayed, ImageRef: point.ImageRef}
	}()

	return done
}

// State returns the current display state.
func (s *Selector) State() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}
