package bulletin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoMeasurements is returned when no bulletin was published between
// midnight and the requested hour.
var ErrNoMeasurements = errors.New("no measurements found for today")

// Resolver walks backwards from the current hour until a published bulletin
// is found. It never crosses into the previous day.
type Resolver struct {
	fetcher Fetcher
	log     *slog.Logger
}

// NewResolver creates a Resolver on top of fetcher.
func NewResolver(fetcher Fetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{fetcher: fetcher, log: logger}
}

// Resolve returns the most recent bulletin at or before hour.
// Transport errors abort the search and are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, hour int) (Bulletin, error) {
	if hour < 0 || hour > 23 {
		return Bulletin{}, fmt.Errorf("invalid hour %d: must be between 0 and 23", hour)
	}

	for h := hour; h >= 0; h-- {
		if err := ctx.Err(); err != nil {
			return Bulletin{}, err
		}

		res, err := r.fetcher.Fetch(ctx, h)
		if err != nil {
			return Bulletin{}, err
		}
		if res.OK {
			r.log.Debug("bulletin resolved", "provider", r.fetcher.Name(), "hour", h, "requested_hour", hour)
			return Bulletin{Hour: h, Body: res.Body}, nil
		}

		r.log.Debug("bulletin not published yet", "provider", r.fetcher.Name(), "hour", h, "status", res.Status)
	}

	return Bulletin{}, ErrNoMeasurements
}
