// Package httpcache provides an optional disk-backed cache for Oura API GET responses.
package httpcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
)

const cacheFile = "oura-cache.gob"

// Entry is a cached response body.
type Entry struct {
	ExpiresAt time.Time
	ETag      string
	Data      []byte
}

// Cache keeps response bodies in memory and persists them to dir.
type Cache struct {
	cache      *otter.Cache[string, Entry]
	logger     *slog.Logger
	saveCancel context.CancelFunc
	dir        string
	saveWg     sync.WaitGroup
	ttl        time.Duration
	mu         sync.Mutex
}

// New opens (or creates) a cache in dir. Entries expire after ttl.
func New(ctx context.Context, dir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	c := &Cache{
		cache: otter.Must(&otter.Options[string, Entry]{
			MaximumSize:      1_000,
			InitialCapacity:  16,
			ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
		}),
		dir:    dir,
		ttl:    ttl,
		logger: logger,
	}

	if err := c.loadFromDisk(); err != nil {
		logger.Warn("failed to load cache from disk", "error", err)
	}
	logger.Debug("cache initialized", "dir", dir, "entries_loaded", c.cache.EstimatedSize())

	c.startPeriodicSave(ctx)
	return c, nil
}

// Key derives a cache key from the request URL and its credentials, so that
// responses are never shared between tokens.
func Key(req *http.Request) string {
	h := sha256.New()
	h.Write([]byte(req.URL.String()))
	h.Write([]byte{0})
	h.Write([]byte(req.Header.Get("Authorization")))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a live entry.
func (c *Cache) Get(key string) (Entry, bool) {
	entry, found := c.cache.GetIfPresent(key)
	if !found {
		return Entry{}, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.cache.Invalidate(key)
		return Entry{}, false
	}
	return entry, true
}

// Set stores data under key.
func (c *Cache) Set(key string, data []byte, etag string) {
	entry := Entry{
		Data:      data,
		ETag:      etag,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	c.cache.Set(key, entry)
	c.logger.Debug("cache set", "key", key[:12], "expires_at", entry.ExpiresAt, "size", len(data))
}

// Len reports the approximate number of cached entries.
func (c *Cache) Len() int {
	return c.cache.EstimatedSize()
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFile)
}

func (c *Cache) loadFromDisk() error {
	file, err := os.Open(c.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.Debug("failed to close cache file", "error", closeErr)
		}
	}()

	var entries map[string]Entry
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding cache file: %w", err)
	}

	now := time.Now()
	valid := 0
	for key, entry := range entries {
		if now.Before(entry.ExpiresAt) {
			c.cache.Set(key, entry)
			valid++
		}
	}
	c.logger.Debug("loaded cache from disk", "path", c.path(), "total_entries", len(entries), "valid_entries", valid)
	return nil
}

func (c *Cache) saveToDisk() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make(map[string]Entry)
	now := time.Now()
	for key, entry := range c.cache.All() {
		if now.Before(entry.ExpiresAt) {
			entries[key] = entry
		}
	}

	tempPath := c.path() + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			c.logger.Debug("failed to remove temp file", "error", removeErr)
		}
	}()

	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		_ = file.Close() //nolint:errcheck // already failing
		return fmt.Errorf("encoding cache to file: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close() //nolint:errcheck // already failing
		return fmt.Errorf("syncing cache file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tempPath, c.path()); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}

	c.logger.Debug("cache saved to disk", "entries", len(entries), "path", c.path())
	return nil
}

func (c *Cache) startPeriodicSave(ctx context.Context) {
	saveCtx, cancel := context.WithCancel(ctx)
	c.saveCancel = cancel

	c.saveWg.Add(1)
	go func() {
		defer c.saveWg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-saveCtx.Done():
				return
			case <-ticker.C:
				if err := c.saveToDisk(); err != nil {
					c.logger.Error("periodic cache save failed", "error", err)
				}
			}
		}
	}()
}

// Close stops the background saver and flushes the cache to disk.
func (c *Cache) Close() error {
	if c.saveCancel != nil {
		c.saveCancel()
	}
	c.saveWg.Wait()
	if err := c.saveToDisk(); err != nil {
		c.logger.Error("final cache save failed", "error", err)
		return err
	}
	return nil
}

// Doer performs HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client serves GET requests from the cache and stores successful responses.
type Client struct {
	cache  *Cache
	next   Doer
	logger *slog.Logger
}

// NewClient wraps next with cache. A nil cache passes every request through.
func NewClient(cache *Cache, next Doer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cache: cache, next: next, logger: logger}
}

// Do implements Doer.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.cache == nil || req.Method != http.MethodGet {
		return c.next.Do(req)
	}

	key := Key(req)
	if entry, found := c.cache.Get(key); found {
		c.logger.Debug("cache hit", "url", req.URL.Path)
		resp := &http.Response{
			Status:     "200 OK",
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(entry.Data)),
			Header:     make(http.Header),
			Request:    req,
		}
		resp.Header.Set("X-From-Cache", "true")
		if entry.ETag != "" {
			resp.Header.Set("ETag", entry.ETag)
		}
		return resp, nil
	}

	resp, err := c.next.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		c.logger.Debug("failed to close response body", "error", closeErr)
	}
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, body, resp.Header.Get("ETag"))
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
