package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const userAgent = "sangeet-music-player/1.0 (https://github.com/sangeet-player/sangeet)"

// Client fetches the song catalog manifest.
type Client struct {
	httpClient *http.Client
	manifest   string
}

// NewClient creates a manifest client for the given URL.
func NewClient(manifestURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		manifest: manifestURL,
	}
}

// FetchManifest downloads and parses the raw manifest records.
// The manifest is a JSON array of fixed-order tuples; see Ingest for the
// field layout.
func (c *Client) FetchManifest(ctx context.Context) ([][]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.manifest, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status: %s", resp.Status)
	}

	var records [][]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return records, nil
}
