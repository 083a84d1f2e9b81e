package eventsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

const eventsPath = "/uwb/events"

// Config holds the configuration for the UWB event client
type Config struct {
	BaseURL string
	Limit   int
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://uwb-dashboard.duckdns.org",
		Limit:   200,
		Timeout: 5 * time.Second,
	}
}

// Client reads the most recent proximity events from the UWB backend.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new event client
func NewClient(config Config) *Client {
	if config.Limit <= 0 {
		config.Limit = DefaultConfig().Limit
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// EventsURL is the full request URL, including the limit query.
func (c *Client) EventsURL() string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.config.Limit))
	return c.config.BaseURL + eventsPath + "?" + q.Encode()
}

// FetchEvents calls GET /uwb/events and returns the batch in response order.
// A JSON null body is an empty batch.
func (c *Client) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.EventsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(body, 256))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}

	var events []domain.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if events == nil {
		events = []domain.Event{}
	}

	return events, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
