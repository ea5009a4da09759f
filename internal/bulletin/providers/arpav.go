package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/arpav-bridge/internal/bulletin"
)

const (
	// DefaultARPAVBaseURL is the root of the hourly 24h bulletins.
	DefaultARPAVBaseURL = "http://www.arpa.veneto.it/bollettini/meteo/h24"
	// DefaultStationID is the bulletin resource of the monitored station.
	DefaultStationID = "0182"
)

// ARPAVProvider implements bulletin.Fetcher for the ARPAV hourly bulletins.
type ARPAVProvider struct {
	name      string
	baseURL   string
	stationID string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
	log       *slog.Logger
}

// NewARPAVProvider creates a fetcher for one station's bulletins.
func NewARPAVProvider(cfg HTTPClientConfig, baseURL, stationID string, logger *slog.Logger) *ARPAVProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultARPAVBaseURL
	}
	if stationID == "" {
		stationID = DefaultStationID
	}

	return &ARPAVProvider{
		name:      "arpav",
		baseURL:   strings.TrimRight(baseURL, "/"),
		stationID: stationID,
		httpCfg:   cfg,
		circuit:   newCircuitBreaker("arpav", cfg.Breaker, logger),
		log:       logger,
	}
}

func (p *ARPAVProvider) Name() string {
	return p.name
}

// URL returns the bulletin location for hour, e.g. .../img07/0182.xml.
func (p *ARPAVProvider) URL(hour int) string {
	return fmt.Sprintf("%s/img%02d/%s.xml", p.baseURL, hour, p.stationID)
}

func (p *ARPAVProvider) Fetch(ctx context.Context, hour int) (bulletin.FetchResult, error) {
	u := p.URL(hour)

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	res, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return bulletin.FetchResult{}, err
	}

	p.log.Debug("upstream fetch", "url", u, "status", res.Status, "bytes", len(res.Body))
	return res, nil
}
