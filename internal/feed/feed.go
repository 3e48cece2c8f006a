// Package feed retrieves and parses the per-section JSON feeds produced by
// the content pipeline.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable reports a transport or parse failure, as opposed to a feed
// that is reachable but empty. Callers render a "could not load" fallback for
// the former and a "no posts yet" fallback for the latter.
var ErrUnavailable = errors.New("feed: unavailable")

// Item is one feed entry. All fields are optional; absence degrades at render
// time, never here.
type Item struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Excerpt     string `json:"excerpt"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at"`
}

// ExcerptText returns the excerpt, falling back to the summary synonym field
// some feed generations use.
func (it Item) ExcerptText() string {
	if strings.TrimSpace(it.Excerpt) != "" {
		return it.Excerpt
	}
	return it.Summary
}

// Document is a parsed feed.
type Document struct {
	Items []Item
}

// First returns the newest item, or nil when the feed is empty.
func (d Document) First() *Item {
	if len(d.Items) == 0 {
		return nil
	}
	return &d.Items[0]
}

// Client fetches feed documents. With a base URL it goes over HTTP; without
// one it reads feed files straight from the site directory, which is how the
// offline patcher and local development run.
type Client struct {
	baseURL string
	dir     string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a Client. Pass an empty baseURL to serve feeds from
// dir instead of over HTTP.
func NewClient(baseURL, dir string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		dir:     dir,
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

// Fetch retrieves and parses the feed at path (e.g. "/news/feed.json").
// Transport and top-level parse failures return ErrUnavailable; a missing or
// wrong-shaped items collection is an empty document, not an error.
func (c *Client) Fetch(ctx context.Context, path string) (Document, error) {
	var raw []byte
	var err error
	if c.baseURL != "" {
		raw, err = c.fetchHTTP(ctx, path)
	} else {
		raw, err = c.readLocal(path)
	}
	if err != nil {
		return Document{}, err
	}
	return parse(raw)
}

func (c *Client) fetchHTTP(ctx context.Context, path string) ([]byte, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		c.logger.Warn("feed: join path", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("feed: request", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("feed: status", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	// Feeds are small; cap the read at 4 MiB.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return raw, nil
}

func (c *Client) readLocal(path string) ([]byte, error) {
	rel := strings.TrimPrefix(strings.TrimSpace(path), "/")
	full := filepath.Join(c.dir, filepath.FromSlash(rel))
	raw, err := os.ReadFile(full)
	if err != nil {
		c.logger.Warn("feed: read", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return raw, nil
}

// parse decodes a feed body. The document must be a JSON object; the items
// field is tolerated in any shape and collapses to an empty list when absent
// or malformed.
func parse(raw []byte) (Document, error) {
	var envelope struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(envelope.Items) == 0 {
		return Document{}, nil
	}
	var items []Item
	if err := json.Unmarshal(envelope.Items, &items); err != nil {
		return Document{}, nil
	}
	return Document{Items: items}, nil
}
