// Package preview resolves a chart-point selection into a displayable image.
// An image is only ever shown after its load succeeds; a failed or superseded
// load leaves the display cleared.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Loader checks that an image URL is actually loadable.
type Loader interface {
	Load(ctx context.Context, url string) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, url string) error

func (f LoaderFunc) Load(ctx context.Context, url string) error {
	return f(ctx, url)
}

// HTTPLoader fetches image URLs over plain HTTP. Requests go through a
// circuit breaker so a dead image host stops costing a full timeout per
// selection.
type HTTPLoader struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPLoader builds an HTTPLoader with the given per-request timeout.
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{
		client: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "image-host",
			Timeout: 30 * time.Second,
		}),
	}
}

// Load fetches the URL and discards the body. Any non-2xx status is a
// failure.
func (l *HTTPLoader) Load(ctx context.Context, url string) error {
	_, err := l.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request image: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	})
	return err
}
