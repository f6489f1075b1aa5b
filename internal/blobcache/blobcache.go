// Package blobcache materializes remote audio assets as local files,
// fetching each URL at most once per session.
package blobcache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultMaxEntries caps how many blobs the cache keeps on disk.
const DefaultMaxEntries = 32

// FetchFunc downloads the raw bytes behind a URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Cache maps remote URLs to locally materialized files. Concurrent Get
// calls for the same URL are coalesced into a single fetch.
type Cache struct {
	dir   string
	max   int
	fetch FetchFunc

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]string // url -> local path
	order   []string          // urls in insertion order, oldest first
}

// New creates a cache rooted at dir. maxEntries <= 0 uses
// DefaultMaxEntries; a nil fetch uses a plain HTTP download.
func New(dir string, maxEntries int, fetch FetchFunc) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if fetch == nil {
		fetch = httpFetch
	}
	return &Cache{
		dir:     dir,
		max:     maxEntries,
		fetch:   fetch,
		entries: make(map[string]string),
	}, nil
}

// Get returns the local path holding the blob behind rawURL, downloading
// it on first use. At most one fetch per URL is ever in flight.
func (c *Cache) Get(ctx context.Context, rawURL string) (string, error) {
	c.mu.Lock()
	if p, ok := c.entries[rawURL]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(rawURL, func() (any, error) {
		// Re-check: a previous flight may have populated the entry
		// between the map check and Do.
		c.mu.Lock()
		if p, ok := c.entries[rawURL]; ok {
			c.mu.Unlock()
			return p, nil
		}
		c.mu.Unlock()

		data, err := c.fetch(ctx, rawURL)
		if err != nil {
			return "", err
		}

		localPath := filepath.Join(c.dir, localName(rawURL))
		if err := os.WriteFile(localPath, data, 0o644); err != nil {
			return "", fmt.Errorf("write cache file: %w", err)
		}

		c.mu.Lock()
		c.entries[rawURL] = localPath
		c.order = append(c.order, rawURL)
		c.evictLocked()
		c.mu.Unlock()

		return localPath, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops the oldest entries over the cap. Caller holds mu.
func (c *Cache) evictLocked() {
	for len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		if p, ok := c.entries[oldest]; ok {
			delete(c.entries, oldest)
			_ = os.Remove(p)
		}
	}
}

// localName derives a stable cache filename from the URL, keeping the
// original extension so format sniffing by name still works.
func localName(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = path.Ext(u.Path)
	}
	return hex.EncodeToString(sum[:]) + ext
}

func httpFetch(ctx context.Context, rawURL string) ([]byte, error) {
	client := &http.Client{Timeout: 5 * time.Minute}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status: %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
