package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const baseURL = "https://maps.googleapis.com/maps/api"

// Client is a Google Maps Distance Matrix API client.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new Distance Matrix client. Requests that take longer
// than timeout fail.
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

// DistanceMatrix requests a single origin/destination driving element,
// departing at departure so the response carries traffic-aware durations.
func (c *Client) DistanceMatrix(ctx context.Context, origin, destination string, departure time.Time) (*DistanceMatrixResponse, error) {
	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("mode", "driving")
	q.Set("departure_time", strconv.FormatInt(departure.Unix(), 10))
	q.Set("key", c.apiKey)

	endpoint := fmt.Sprintf("%s/distancematrix/json?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result DistanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}
