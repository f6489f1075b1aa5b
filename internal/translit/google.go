package translit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const inputToolsURL = "https://inputtools.google.com/request"

// ErrNoCandidate is returned when the input tools service produces no
// transliteration candidate for the given text.
var ErrNoCandidate = errors.New("translit: no candidate returned")

// GoogleClient resolves Latin phonetic text to Gujarati script using the
// Google Input Tools service. It is an explicit asynchronous step invoked
// before query normalization, never from inside scoring.
type GoogleClient struct {
	httpClient *http.Client
}

// NewGoogleClient creates an input tools client.
func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Transliterate converts text to Gujarati script. The service response is
// a nested JSON array: ["SUCCESS", [[input, [candidates...], ...]]].
func (c *GoogleClient) Transliterate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("itc", "gu-t-i0-und")
	params.Set("num", "1")
	params.Set("cp", "0")
	params.Set("cs", "1")
	params.Set("ie", "utf-8")
	params.Set("oe", "utf-8")
	params.Set("app", "sangeet")
	params.Set("text", text)

	reqURL := fmt.Sprintf("%s?%s", inputToolsURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(payload) < 2 {
		return "", ErrNoCandidate
	}

	// payload[1] is [[input, [candidates...], ...], ...]
	var results [][]json.RawMessage
	if err := json.Unmarshal(payload[1], &results); err != nil {
		return "", fmt.Errorf("decode results: %w", err)
	}
	if len(results) == 0 || len(results[0]) < 2 {
		return "", ErrNoCandidate
	}

	var candidates []string
	if err := json.Unmarshal(results[0][1], &candidates); err != nil {
		return "", fmt.Errorf("decode candidates: %w", err)
	}
	if len(candidates) == 0 {
		return "", ErrNoCandidate
	}

	return candidates[0], nil
}
