// Package defeatbeta implements the provider client against the
// DefeatBeta financial data API. All upstream calls for the pipeline
// go through this client; it speaks JSON for time series and scrapes
// the HTML profile page for company metadata.
package defeatbeta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tickerlab/research/backend/pkg/httputil"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// errNotFound marks a 404 from the upstream. Callers translate it to
// an empty result: an unknown or thinly covered symbol is not a fault.
var errNotFound = fmt.Errorf("not found")

// Client handles communication with the DefeatBeta API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// getJSON fetches path with params and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return errNotFound
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
