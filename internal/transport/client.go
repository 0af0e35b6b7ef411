// Package transport provides the HTTP client used to reach the schedule API.
// The API authenticates with a station key carried in a request header.
package transport

import (
	"context"
	"net/http"

	"github.com/klrn-data/schedcheck/pkg/constants"
	"github.com/klrn-data/schedcheck/pkg/errors"
)

// AuthHeader is the header the schedule API reads the station key from.
const AuthHeader = "X-PBSAUTH"

// Client performs authenticated HTTP requests against the schedule API.
type Client struct {
	http   *http.Client
	apiKey string
}

// New creates a transport client with the given station API key. An empty
// key produces a client that sends unauthenticated requests; callers decide
// whether that is acceptable for their endpoint.
func New(apiKey string) *Client {
	return &Client{
		http:   &http.Client{Timeout: constants.DefaultHTTPTimeout},
		apiKey: apiKey,
	}
}

// Get performs an authenticated GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create request", url, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(AuthHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{Source: "pbs", Endpoint: url, Err: err}
	}
	return resp, nil
}
