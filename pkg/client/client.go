// Package client provides the HTTP client for the Sporthive event results API
// with request classification, JSON decoding and request metrics.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public Sporthive event results API.
const DefaultBaseURL = "https://eventresults-api.sporthive.com"

// ClassificationsRoute is the route template of the classification search,
// used as the endpoint metric label.
const ClassificationsRoute = "/api/events/{event}/races/{race}/classifications/search"

// Prometheus metrics for results API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sporthive_requests_total",
		Help: "Total results API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sporthive_request_duration_seconds",
		Help:    "Results API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sporthive_errors_total",
		Help: "Total results API errors by class",
	}, []string{"class"})
)

// Client is the results API client.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is scheme and host of the API, e.g. https://eventresults-api.sporthive.com
	BaseURL string

	// User-Agent header sent with every request
	UserAgent string

	// Timeout per request (0 means no timeout)
	Timeout time.Duration
}

// DefaultConfig returns the default configuration for the public API.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a new results API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		config:  cfg,
		logger:  log.With().Str("component", "client").Logger(),
	}, nil
}

// ClassificationsPath returns the classification search path of a race.
func ClassificationsPath(eventID, raceID string) string {
	return fmt.Sprintf("/api/events/%s/races/%s/classifications/search", eventID, raceID)
}

// Do executes a request with the client's headers, logging and metrics.
// endpoint is the metric label for the request. Transport failures are
// returned as *APIError with ErrorClassNetwork; the response status is not
// inspected.
func (c *Client) Do(req *http.Request, endpoint string) (*http.Response, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Str("query", req.URL.RawQuery).
		Msg("Executing results API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &APIError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}

	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// GetJSON performs a GET request for path with the given query and decodes
// the JSON response into out. Any non-2xx status or undecodable body is an
// *APIError. Nothing is retried.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := *c.baseURL
	target.Path = strings.TrimSuffix(c.baseURL.Path, "/") + path
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	endpoint := endpointLabel(path)
	resp, err := c.Do(req, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if errClass := classifyStatus(resp.StatusCode); errClass != "" {
		errorsTotal.WithLabelValues(string(errClass)).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Results API request error")
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    statusMessage(resp.Status, body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Str("error_class", string(ErrorClassDecode)).
			Msg("Results API response not decodable")
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			Message:    "decode response body",
			Err:        err,
		}
	}

	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// endpointLabel keeps metric cardinality bounded by collapsing identifiers.
func endpointLabel(path string) string {
	if strings.HasPrefix(path, "/api/events/") && strings.HasSuffix(path, "/classifications/search") {
		return ClassificationsRoute
	}
	return "other"
}

func statusMessage(status string, body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if snippet == "" {
		return status
	}
	return status + ": " + snippet
}
