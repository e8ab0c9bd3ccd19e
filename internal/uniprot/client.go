package uniprot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpClient performs requests; tests may replace it with a mock transport.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// StatusError reports a non-200 answer for one accession.
type StatusError struct {
	Accession  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("uniprot returned status %d for %s", e.StatusCode, e.Accession)
}

// Client fetches single UniProtKB entries as JSON.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient returns a Client for baseURL. A zero timeout keeps the package
// default client.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	hc := httpClient
	if timeout > 0 && timeout != hc.Timeout {
		hc = &http.Client{Transport: httpClient.Transport, Timeout: timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      hc,
	}
}

// URL is the entry location for accession.
func (c *Client) URL(accession string) string {
	return c.baseURL + "/" + accession + ".json"
}

// Fetch issues one GET for accession and returns the raw body on 200. Any
// other status yields a *StatusError; there is no retry.
func (c *Client) Fetch(ctx context.Context, accession string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(accession), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", accession, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Accession: accession, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", accession, err)
	}
	return body, nil
}
