package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const recommendPath = "/api/quantum/recommend"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

type recommendResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	Recommendations []Item `json:"recommendations"`
}

// HTTPClient calls the remote recommendation service over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient creates a client with a traced transport and a hard timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   timeout,
		},
		logger: logger.With().Str("component", "recommend_client").Logger(),
	}
}

// Recommend implements Recommender.
func (c *HTTPClient) Recommend(ctx context.Context, req Request) ([]Item, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+recommendPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Msg("recommendation request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded recommendResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		c.logger.Warn().Err(err).Int("status", resp.StatusCode).Msg("invalid recommendation response")
		return nil, fmt.Errorf("%w: invalid response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK || decoded.Status != "success" {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("message", decoded.Message).
			Msg("recommendation service returned an error")
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	c.logger.Debug().
		Int("count", len(decoded.Recommendations)).
		Dur("duration", time.Since(start)).
		Msg("recommendations received")

	return decoded.Recommendations, nil
}
