package jaeger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the default base URL for the Jaeger Query API.
const DefaultBaseURL = "http://localhost:16686"

// Client is a Jaeger Query API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new Jaeger Query API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchOptions filter a trace search.
type SearchOptions struct {
	// Limit caps the number of traces returned (default 20).
	Limit int
	// Lookback bounds how far back to search (default 15m).
	Lookback time.Duration
	// MinDuration drops traces faster than this, when positive.
	MinDuration time.Duration
	// OnlyErrors keeps only traces tagged with an error.
	OnlyErrors bool
}

// Search fetches raw traces for a service.
func (c *Client) Search(ctx context.Context, service string, opts SearchOptions) ([]Trace, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 15 * time.Minute
	}

	query := url.Values{
		"service":  {service},
		"limit":    {strconv.Itoa(opts.Limit)},
		"lookback": {formatLookback(opts.Lookback)},
	}
	if opts.MinDuration > 0 {
		query.Set("minDuration", fmt.Sprintf("%dms", opts.MinDuration.Milliseconds()))
	}
	if opts.OnlyErrors {
		query.Set("tags", `{"error":"true"}`)
	}

	var resp dataResponse[[]Trace]
	if err := c.get(ctx, "/api/traces", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetTrace fetches one trace by ID. A missing trace is an *APIError with
// status 404.
func (c *Client) GetTrace(ctx context.Context, traceID string) (*Trace, error) {
	var resp dataResponse[[]Trace]
	if err := c.get(ctx, "/api/traces/"+url.PathEscape(traceID), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("trace %q not found", traceID)}
	}
	return &resp.Data[0], nil
}

// ServiceSequences returns the observed service call sequence of each recent
// trace for a service. This is the trace-mining feed for graph construction.
func (c *Client) ServiceSequences(ctx context.Context, service string) ([][]string, error) {
	traces, err := c.Search(ctx, service, SearchOptions{})
	if err != nil {
		return nil, err
	}

	sequences := make([][]string, 0, len(traces))
	for i := range traces {
		if processed := ProcessTrace(&traces[i]); processed != nil {
			sequences = append(sequences, processed.Services)
		}
	}
	return sequences, nil
}

// dataResponse is the Jaeger API envelope.
type dataResponse[T any] struct {
	Data   T      `json:"data"`
	Errors []any  `json:"errors"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// formatLookback renders a duration the way the Jaeger API expects, e.g.
// "15m" or "2h".
func formatLookback(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	minutes := int(d.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%dm", minutes)
}

// get performs a GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	start := time.Now()

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parsing URL: %w", err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("jaeger request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	slog.Debug("jaeger request completed",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
