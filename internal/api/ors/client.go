package ors

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
)

const baseURL = "https://api.openrouteservice.org"

// Client is an OpenRouteService API client.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new ORS client. Requests that take longer than timeout fail.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// WithBaseURL points the client at another host, e.g. a test server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Directions returns the route summary between two points for profile
// (e.g. "driving-car").
func (c *Client) Directions(ctx context.Context, profile string, start, end Point) (*DirectionsResponse, error) {
	q := url.Values{}
	q.Set("start", start.String())
	q.Set("end", end.String())

	var result DirectionsResponse
	if err := c.get(ctx, fmt.Sprintf("/v2/directions/%s", profile), q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Geocode resolves free text to candidate points, restricted to country
// (ISO alpha-2) when set.
func (c *Client) Geocode(ctx context.Context, text, country string) (*GeocodeResponse, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("size", "1")
	if country != "" {
		q.Set("boundary.country", country)
	}

	var result GeocodeResponse
	if err := c.get(ctx, "/geocode/search", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// StatusError is a non-200 response from ORS.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "unexpected status code: " + strconv.Itoa(e.Code) + ": " + e.Body
}
