package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/arpav-bridge/internal/bulletin"
)

// BreakerConfig controls when the upstream circuit breaker opens.
type BreakerConfig struct {
	MaxFailures uint32        // consecutive transport failures before opening
	OpenTimeout time.Duration // time spent open before probing again
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Breaker BreakerConfig
}

var errNoHTTPClient = errors.New("http client not configured")

func newCircuitBreaker(name string, cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// doRequest performs exactly one GET through the circuit breaker and reads the
// whole body. Only transport failures count against the breaker; a non-2xx
// status is a regular result.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (bulletin.FetchResult, error) {
	if cfg.Client == nil {
		return bulletin.FetchResult{}, errNoHTTPClient
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return bulletin.FetchResult{}, fmt.Errorf("error parsing URL: %w", err)
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("error getting response: %w", execErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
			return bulletin.FetchResult{Status: resp.StatusCode}, nil
		}

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("error reading response body: %w", readErr)
		}
		return bulletin.FetchResult{OK: true, Status: resp.StatusCode, Body: body}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return bulletin.FetchResult{}, fmt.Errorf("error getting response: %w", err)
		}
		return bulletin.FetchResult{}, err
	}

	res, ok := result.(bulletin.FetchResult)
	if !ok {
		return bulletin.FetchResult{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return res, nil
}
