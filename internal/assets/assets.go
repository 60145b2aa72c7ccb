// Package assets resolves and fetches editor assets such as UV guide images
// and preset textures from local directories or an HTTP asset service.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no source has the requested asset.
var ErrNotFound = errors.New("asset not found")

// DefaultTimeout bounds a single HTTP fetch.
const DefaultTimeout = 15 * time.Second

// Resolver maps a bucket and filename to a fetchable URL.
type Resolver interface {
	ResolveAssetURL(ctx context.Context, bucket, filename string) (string, error)
}

// Fetcher downloads the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Manager resolves assets against a list of sources. A source is either a
// local directory laid out as <root>/<bucket>/<filename> or the base URL of
// an asset service. Sources are searched in reverse order (last added =
// highest priority).
type Manager struct {
	sources []string
	client  *http.Client
	cache   *Cache
	log     *zap.Logger
	mu      sync.RWMutex
}

// NewManager creates a manager with no sources.
func NewManager(log *zap.Logger, timeout time.Duration) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		client: &http.Client{Timeout: timeout},
		cache:  NewCache(0),
		log:    log,
	}
}

// AddSource adds a directory or an http(s) base URL.
func (m *Manager) AddSource(source string) error {
	if !isHTTP(source) {
		info, err := os.Stat(source)
		if err != nil {
			return fmt.Errorf("opening asset root %s: %w", source, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("asset root %s is not a directory", source)
		}
		abs, err := filepath.Abs(source)
		if err != nil {
			return fmt.Errorf("resolving asset root %s: %w", source, err)
		}
		source = abs
	}

	m.mu.Lock()
	m.sources = append(m.sources, strings.TrimRight(source, "/"))
	m.mu.Unlock()
	return nil
}

// ResolveAssetURL returns a file:// URL for the first directory holding the
// asset, or a service URL for the first HTTP source.
func (m *Manager) ResolveAssetURL(ctx context.Context, bucket, filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: empty filename in %s", ErrNotFound, bucket)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs error
	for i := len(m.sources) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		src := m.sources[i]
		if isHTTP(src) {
			q := url.Values{"bucket": {bucket}, "file": {filename}}
			return src + "/public-asset?" + q.Encode(), nil
		}
		path := filepath.Join(src, bucket, filepath.FromSlash(filename))
		if _, err := os.Stat(path); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(), nil
	}

	if errs != nil {
		return "", fmt.Errorf("%w: %s/%s: %w", ErrNotFound, bucket, filename, errs)
	}
	return "", fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, filename)
}

// Fetch returns the bytes behind a file:// or http(s) URL. Results are cached
// by URL.
func (m *Manager) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if data, ok := m.cache.Get(rawURL); ok {
		return data, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing asset URL: %w", err)
	}

	var data []byte
	switch u.Scheme {
	case "file":
		data, err = os.ReadFile(filepath.FromSlash(u.Path))
	case "http", "https":
		data, err = m.get(ctx, rawURL)
	default:
		err = fmt.Errorf("unsupported asset URL scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}

	m.cache.Set(rawURL, data)
	m.log.Debug("asset fetched", zap.String("url", rawURL), zap.Int("bytes", len(data)))
	return data, nil
}

// Load resolves and fetches an asset in one call.
func (m *Manager) Load(ctx context.Context, bucket, filename string) ([]byte, error) {
	u, err := m.ResolveAssetURL(ctx, bucket, filename)
	if err != nil {
		return nil, err
	}
	return m.Fetch(ctx, u)
}

func (m *Manager) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset service returned %s", resp.Status)
	}
	// Error pages come back as 200 text/html from some proxies.
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt == "text/html" {
		return nil, errors.New("asset service returned an HTML page")
	}
	return io.ReadAll(resp.Body)
}

// Cache returns the manager's byte cache.
func (m *Manager) Cache() *Cache { return m.cache }

// Close drops every source and clears the cache.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = nil
	m.cache.Clear()
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Cache is an in-memory byte cache bounded by total size. The oldest
// entries are evicted first.
type Cache struct {
	data     map[string][]byte
	order    []string
	size     int64
	maxBytes int64
	mu       sync.Mutex

	// Stats
	hits   int
	misses int
}

// DefaultCacheBytes bounds the cache of a new Manager.
const DefaultCacheBytes = 256 << 20

// NewCache creates a cache holding at most maxBytes; zero or less means
// DefaultCacheBytes.
func NewCache(maxBytes int64) *Cache {
	if maxBytes <= 0 {
		maxBytes = DefaultCacheBytes
	}
	return &Cache{
		data:     make(map[string][]byte),
		maxBytes: maxBytes,
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache. Items larger than the bound are not stored.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(data))
	if n > c.maxBytes {
		return
	}
	if old, ok := c.data[key]; ok {
		c.size -= int64(len(old))
		c.remove(key)
	}
	for c.size+n > c.maxBytes && len(c.order) > 0 {
		oldest := c.order[0]
		c.size -= int64(len(c.data[oldest]))
		delete(c.data, oldest)
		c.order = c.order[1:]
	}
	c.data[key] = data
	c.order = append(c.order, key)
	c.size += n
}

func (c *Cache) remove(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Size returns the cached byte total.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.order = nil
	c.size = 0
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
