package dataclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/polycopy/trade-monitor/internal/config"
	"github.com/polycopy/trade-monitor/internal/observability/metrics"
	"github.com/polycopy/trade-monitor/internal/types"
)

const positionsEndpoint = "/positions"

const defaultMaxRetryTimes = 3
const defaultRetryInterval = 500 * time.Millisecond
const defaultTimeout = 15 * time.Second

// retryableError wraps responses worth retrying (rate limits, upstream
// hiccups); everything else fails immediately.
type retryableError struct {
	statusCode int
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("data API returned retryable status %d", e.statusCode)
}

type Client struct {
	httpClient *http.Client
	cfg        *config.DataAPIConfig
}

func NewClient(cfg *config.DataAPIConfig) *Client {
	if cfg == nil {
		return nil
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		cfg:        cfg,
	}
}

// GetPositions fetches the full position snapshot for one address. The
// data API returns a JSON array of position objects; any other shape is an
// error.
func (c *Client) GetPositions(ctx context.Context, address string) ([]types.PositionSnapshot, error) {
	if address == "" {
		return nil, fmt.Errorf("empty address provided")
	}

	callForPositions := func() ([]types.PositionSnapshot, error) {
		reqURL := fmt.Sprintf(
			"%s%s?user=%s",
			c.cfg.URL, positionsEndpoint, url.QueryEscape(address),
		)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		metrics.RecordClientRequestDuration(
			c.cfg.URL, http.MethodGet, positionsEndpoint,
			resp.StatusCode, time.Since(start),
		)

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &retryableError{statusCode: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf(
				"data API returned status %d: %s", resp.StatusCode, string(body),
			)
		}

		var positions []types.PositionSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&positions); err != nil {
			return nil, fmt.Errorf("failed to decode positions response: %w", err)
		}

		return positions, nil
	}

	result, err := clientCallWithRetry(ctx, callForPositions)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions for %q: %w", address, err)
	}

	return result, nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
) (T, error) {
	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(defaultMaxRetryTimes),
		retry.Delay(defaultRetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			_, retryable := err.(*retryableError)
			return retryable
		}))
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
