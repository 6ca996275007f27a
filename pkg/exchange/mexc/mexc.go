// Package mexc implements a read-only MEXC adapter backed by the spot
// REST API for 24h tickers and the contract API for klines.
package mexc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cryptoriginal/signalx/pkg/exchange"
	"github.com/cryptoriginal/signalx/pkg/logger"
	"github.com/jpillora/backoff"
)

const (
	defaultSpotBaseURL     = "https://api.mexc.com"
	defaultContractBaseURL = "https://contract.mexc.com"
	defaultTimeout         = 8 * time.Second
	defaultMaxRetries      = 3
)

// Mexc is the MEXC market data client
type Mexc struct {
	spotBaseURL     string
	contractBaseURL string
	client          *http.Client
	maxRetries      int
	log             logger.Logger
}

// Option is a function that configures a Mexc client
type Option func(*Mexc)

// WithSpotBaseURL overrides the spot API endpoint
func WithSpotBaseURL(url string) Option {
	return func(m *Mexc) {
		m.spotBaseURL = url
	}
}

// WithContractBaseURL overrides the contract API endpoint
func WithContractBaseURL(url string) Option {
	return func(m *Mexc) {
		m.contractBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(m *Mexc) {
		m.client = client
	}
}

// WithMaxRetries sets how many times a failed request is retried
func WithMaxRetries(retries int) Option {
	return func(m *Mexc) {
		m.maxRetries = retries
	}
}

// New creates a new MEXC client and checks connectivity
func New(ctx context.Context, log logger.Logger, options ...Option) (*Mexc, error) {
	m := &Mexc{
		spotBaseURL:     defaultSpotBaseURL,
		contractBaseURL: defaultContractBaseURL,
		client:          &http.Client{Timeout: defaultTimeout},
		maxRetries:      defaultMaxRetries,
		log:             log,
	}

	for _, option := range options {
		option(m)
	}

	if err := m.ping(ctx); err != nil {
		return nil, fmt.Errorf("mexc ping fail: %w", err)
	}

	log.Info("[SETUP] Using MEXC exchange")
	return m, nil
}

// ping checks that the spot API is reachable
func (m *Mexc) ping(ctx context.Context) error {
	var out map[string]any
	return m.get(ctx, m.spotBaseURL+"/api/v3/ping", &out)
}

// get performs a GET request with retries and decodes the JSON body
// into out. Client side API errors are not retried.
func (m *Mexc) get(ctx context.Context, url string, out any) error {
	retry := &backoff.Backoff{
		Min:    250 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retry.Duration()):
			case <-ctx.Done():
				return ctx.Err()
			}
			m.log.WithField("url", url).Debugf("retrying request, attempt %d", attempt)
		}

		err := m.getOnce(ctx, url, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var apiErr *exchange.APIError
		if errors.As(err, &apiErr) && !apiErr.IsRetryable() {
			return err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", m.maxRetries+1, lastErr)
}

func (m *Mexc) getOnce(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &exchange.APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Message:    truncate(string(body), 200),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response %s: %w", url, err)
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
