// Package client talks to the upstream PokeAPI.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultUserAgent = "Pokedex/1.0"

// FetchError describes a failed GET. Status is 0 when no response was
// received (DNS, connection refused, timeout).
type FetchError struct {
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("GET %s: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Status, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client performs stateless JSON GETs. It never retries; callers decide.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new Client.
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		userAgent:  defaultUserAgent,
	}
}

// FetchJSON issues one GET to url and decodes a 2xx JSON body into out.
func (c *Client) FetchJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{URL: url, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{URL: url, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &FetchError{URL: url, Status: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{
			URL:     url,
			Status:  resp.StatusCode,
			Message: "decode response: " + err.Error(),
			Err:     err,
		}
	}
	return nil
}
