package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"dat-backend/pkg/cache"
	"dat-backend/pkg/logger"
)

// LoadOptions controls caching behavior per call site, mirroring how the
// different tabs are consumed: the forward map loads with NoStore (stale
// redirects are worse than the extra fetch), the roster tolerates a soft
// TTL, and admin diagnostics use CacheBust to defeat intermediary caches.
type LoadOptions struct {
	// NoStore bypasses the cache entirely (read and write).
	NoStore bool
	// Revalidate is a soft TTL in seconds. Within the TTL the cached
	// bytes are served without a fetch.
	Revalidate int
	// CacheBust appends a cache-defeating query parameter to the URL.
	CacheBust bool
}

// Loader fetches CSV exports over HTTP with a disk fallback: a successful
// fetch is snapshotted next to the fallback file it would read, so an
// upstream outage degrades to last-good data instead of an error.
type Loader struct {
	client      *http.Client
	cache       cache.Cache
	fallbackDir string
}

func NewLoader(c cache.Cache, fallbackDir string) *Loader {
	return &Loader{
		client:      &http.Client{Timeout: 10 * time.Second},
		cache:       c,
		fallbackDir: fallbackDir,
	}
}

// Load returns the raw CSV bytes for rawURL. On any fetch failure
// (network error, non-2xx, timeout) it falls back to the same-named file
// under the fallback directory; if that is also missing, the fetch error
// is returned and the caller decides whether to surface or degrade.
func (l *Loader) Load(ctx context.Context, rawURL, fallbackName string, opts LoadOptions) ([]byte, error) {
	cacheKey := "csv:" + fallbackName

	if !opts.NoStore && opts.Revalidate > 0 {
		var cached []byte
		if found, err := l.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	data, fetchErr := l.fetch(ctx, rawURL, opts.CacheBust)
	if fetchErr == nil {
		if !opts.NoStore && opts.Revalidate > 0 {
			if err := l.cache.Set(ctx, cacheKey, data, time.Duration(opts.Revalidate)*time.Second); err != nil {
				logger.Warn("csv cache set failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
			}
		}
		l.snapshot(fallbackName, data)
		return data, nil
	}

	if fallback, ok := l.readFallback(fallbackName); ok {
		logger.Warn("csv fetch failed, serving fallback", map[string]interface{}{
			"name":  fallbackName,
			"error": fetchErr.Error(),
		})
		return fallback, nil
	}

	return nil, fmt.Errorf("load csv %q: %w", fallbackName, fetchErr)
}

func (l *Loader) fetch(ctx context.Context, rawURL string, cacheBust bool) ([]byte, error) {
	if cacheBust {
		sep := "?"
		if u, err := url.Parse(rawURL); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		rawURL = fmt.Sprintf("%s%scb=%d", rawURL, sep, time.Now().UnixNano())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// snapshot persists last-good bytes for the fallback path. Best-effort:
// a failed write only logs.
func (l *Loader) snapshot(name string, data []byte) {
	if l.fallbackDir == "" {
		return
	}

	if err := os.MkdirAll(l.fallbackDir, 0o755); err != nil {
		logger.Warn("csv snapshot dir", map[string]interface{}{"error": err.Error()})
		return
	}

	target := filepath.Join(l.fallbackDir, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		logger.Warn("csv snapshot write", map[string]interface{}{"name": name, "error": err.Error()})
		return
	}
	if err := os.Rename(tmp, target); err != nil {
		logger.Warn("csv snapshot rename", map[string]interface{}{"name": name, "error": err.Error()})
	}
}

func (l *Loader) readFallback(name string) ([]byte, bool) {
	if l.fallbackDir == "" {
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(l.fallbackDir, name))
	if err != nil {
		return nil, false
	}
	return data, true
}

// ExportURL builds the CSV export URL for a sheet tab. Used when a tab
// has no explicit override URL configured.
func ExportURL(sheetID, tab string) string {
	return fmt.Sprintf(
		"https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		sheetID, url.QueryEscape(tab),
	)
}
