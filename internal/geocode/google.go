// ABOUTME: Google Geocoding API client
// ABOUTME: Rate limited HTTP lookups returning the first match

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Google Geocoding API endpoint.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

	defaultTimeout = 10 * time.Second

	// Requests per second allowed towards the API, with a small burst.
	defaultRate  = 10
	defaultBurst = 2
)

// GoogleClient resolves queries with the Google Geocoding API.
type GoogleClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
}

var _ Geocoder = (*GoogleClient)(nil)

// ClientOption configures a GoogleClient.
type ClientOption func(*GoogleClient)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(u string) ClientOption {
	return func(c *GoogleClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *GoogleClient) { c.httpClient = h }
}

// WithRateLimit sets the allowed request rate.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *GoogleClient) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// NewGoogleClient creates a client using apiKey.
func NewGoogleClient(apiKey string, opts ...ClientOption) *GoogleClient {
	c := &GoogleClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(defaultRate, defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve looks query up and returns the first result.
func (c *GoogleClient) Resolve(ctx context.Context, query string) (Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	params := url.Values{
		"address": {query},
		"key":     {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: HTTP %d", ErrTransport, resp.StatusCode)
	}

	var gr googleResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}

	switch gr.Status {
	case "OK":
		if len(gr.Results) == 0 {
			return Result{}, ErrNotFound
		}
		first := gr.Results[0]
		log.Debug().Str("query", query).Str("address", first.FormattedAddress).Msg("geocoded")
		return Result{
			Lat:              first.Geometry.Location.Lat,
			Lng:              first.Geometry.Location.Lng,
			FormattedAddress: first.FormattedAddress,
		}, nil
	case "ZERO_RESULTS":
		return Result{}, ErrNotFound
	default:
		if gr.ErrorMessage != "" {
			return Result{}, fmt.Errorf("%w: %s: %s", ErrTransport, gr.Status, gr.ErrorMessage)
		}
		return Result{}, fmt.Errorf("%w: %s", ErrTransport, gr.Status)
	}
}
