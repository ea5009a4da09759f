package bulletin

import (
	"context"
	"log/slog"
)

// Service runs the resolve, parse and extract pipeline for one request.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	resolver *Resolver
	log      *slog.Logger
}

// NewService creates a new Service.
func NewService(fetcher Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resolver: NewResolver(fetcher, logger),
		log:      logger,
	}
}

// LatestReadings returns the latest value per sensor type from the most recent
// bulletin published at or before hour. Errors from any stage are returned as is.
func (s *Service) LatestReadings(ctx context.Context, hour int) (Readings, error) {
	b, err := s.resolver.Resolve(ctx, hour)
	if err != nil {
		return nil, err
	}

	c, err := Parse(b.Body)
	if err != nil {
		return nil, err
	}

	readings := Extract(c)
	s.log.Info("bulletin served",
		"station", c.Station.ID,
		"hour", b.Hour,
		"sensors", len(c.Station.Sensors),
		"readings", len(readings),
	)
	return readings, nil
}
