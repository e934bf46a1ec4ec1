package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pricio/backend/internal/domain"
)

const (
	maxAttempts    = 3
	requestTimeout = 15 * time.Second
)

// Client posts price-drop notifications to a webhook endpoint
type Client struct {
	httpClient  *http.Client
	url         string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      zerolog.Logger
}

// NewClient creates a webhook client sending at most perMinute requests per minute
func NewClient(url string, perMinute int, logger zerolog.Logger) *Client {
	if perMinute <= 0 {
		perMinute = 30
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		url:         url,
		rateLimiter: limiter,
		backoff:     exponentialBackoff,
		logger:      logger.With().Str("component", "webhook").Logger(),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s... for attempts 1, 2, 3...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// NotifyPriceDrop posts the drop, retrying transient failures up to three times.
// 4xx responses other than 429 are not retried.
func (c *Client) NotifyPriceDrop(ctx context.Context, drop domain.PriceDrop) error {
	body, err := json.Marshal(NewPayload(drop))
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		status, err := c.post(ctx, body)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: %v", domain.ErrNotifierFailure, err)
		case status >= 200 && status < 300:
			c.logger.Info().
				Str("user", drop.Alert.UserID).
				Str("product", drop.Product.ID).
				Int("attempt", attempt).
				Msg("price drop delivered")
			return nil
		case status >= 400 && status < 500 && status != http.StatusTooManyRequests:
			return fmt.Errorf("%w: status %d", domain.ErrNotifierFailure, status)
		default:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrNotifierFailure, status)
		}

		c.logger.Warn().Err(lastErr).Int("attempt", attempt).Msg("webhook delivery failed")
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Pricio/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
