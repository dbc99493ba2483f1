package trafikverket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nordrail/traintrips/config"
)

// Client fetches TrainAnnouncement batches from the Trafikverket API.
// Requests are sequential; the caller is responsible for the inter-window
// pause that keeps the rate limiter happy.
type Client struct {
	httpClient *http.Client
	cfg        config.APIConfig
	logger     *slog.Logger

	// sleep is replaceable in tests to avoid real backoff waits.
	sleep func(time.Duration)
}

func NewClient(cfg config.APIConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		cfg:        cfg,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// FetchWindow fetches all records with an advertised time in [t0, t1).
// Rate-limit responses back off exponentially, other transient failures
// linearly. After the retry budget is spent the window is reported as an
// error; callers treat it as empty and continue.
func (c *Client) FetchWindow(ctx context.Context, t0, t1 time.Time) ([]Announcement, error) {
	query := BuildWindowQuery(c.cfg.Key, t0, t1, c.cfg.LimitPerWindow)
	body, err := c.post(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("window %s–%s: %w", t0.Format("15:04"), t1.Format("15:04"), err)
	}
	anns, err := DecodeAnnouncements(body)
	if err != nil {
		return nil, fmt.Errorf("window %s–%s: decode: %w", t0.Format("15:04"), t1.Format("15:04"), err)
	}
	return anns, nil
}

// FetchPlannedRaw fetches all forecast records of one activity type for the
// UTC interval and returns the raw response payload. The payload is persisted
// verbatim so the transform step can be re-run from storage.
func (c *Client) FetchPlannedRaw(ctx context.Context, activityType, startISO, endISO string) ([]byte, int, error) {
	query := BuildPlannedQuery(c.cfg.Key, activityType, startISO, endISO)
	body, err := c.post(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("planned %s: %w", activityType, err)
	}
	anns, err := DecodeAnnouncements(body)
	if err != nil {
		return nil, 0, fmt.Errorf("planned %s: decode: %w", activityType, err)
	}
	return body, len(anns), nil
}

func (c *Client) post(ctx context.Context, query string) ([]byte, error) {
	base := time.Duration(c.cfg.BackoffSec * float64(time.Second))
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		body, status, err := c.doPost(ctx, query)
		if err == nil && status == http.StatusOK {
			return body, nil
		}

		switch {
		case err != nil && errors.Is(err, context.Canceled):
			return nil, err
		case status == http.StatusTooManyRequests:
			wait := base * time.Duration(1<<(attempt-1))
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < c.cfg.MaxRetries {
				c.logger.Warn("rate limited, backing off",
					"wait", wait.String(), "attempt", attempt, "max", c.cfg.MaxRetries)
				c.sleep(wait)
			}
		case err != nil && isTimeout(err):
			wait := base * time.Duration(attempt)
			lastErr = err
			if attempt < c.cfg.MaxRetries {
				c.logger.Warn("request timed out, retrying",
					"wait", wait.String(), "attempt", attempt, "max", c.cfg.MaxRetries)
				c.sleep(wait)
			}
		default:
			wait := base * time.Duration(attempt)
			if err != nil {
				lastErr = err
			} else {
				lastErr = fmt.Errorf("HTTP %d", status)
			}
			if attempt < c.cfg.MaxRetries {
				c.logger.Warn("request failed, retrying",
					"error", lastErr.Error(), "wait", wait.String(),
					"attempt", attempt, "max", c.cfg.MaxRetries)
				c.sleep(wait)
			}
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.cfg.MaxRetries, lastErr)
}

func (c *Client) doPost(ctx context.Context, query string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader([]byte(query)))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
