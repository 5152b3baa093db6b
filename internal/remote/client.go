// Package remote talks to the inventory API used by authenticated sessions.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estoque/internal/cache"
	"estoque/internal/core"
)

const maxResponseBytes = 10 << 20

// FetchError reports a failed call to the remote API. Status is 0 for transport failures.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote %s: status %d: %v", e.Op, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	// Location interprets the local log times the API exchanges. Defaults to time.Local.
	Location *time.Location
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client implements ports.Backend against the remote API. It never retries.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	logs  cache.Cache[[]core.LogEntry]
	lru   *cache.LRUCache[[]core.LogEntry]
	loc   *time.Location
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("remote: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", base.Scheme)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 12
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	lru := cache.NewLRUCache[[]core.LogEntry](size, ttl)
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Client{base: base, token: cfg.Token, http: hc, logs: lru, lru: lru, loc: loc}, nil
}

// Cache exposes the month cache so it can be registered for periodic cleanup.
func (c *Client) Cache() cache.Cleaner { return c.lru }

func (c *Client) ListItems(ctx context.Context) ([]core.Item, error) {
	var env itemsEnvelope
	if err := c.do(ctx, "list items", http.MethodGet, path("items"), nil, nil, &env); err != nil {
		return nil, err
	}
	items := make([]core.Item, len(env.UserItems))
	for i, w := range env.UserItems {
		items[i] = w.toCore()
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, it core.Item) error {
	return c.do(ctx, "create item", http.MethodPost, path("items"), nil, fromItem(it), nil)
}

func (c *Client) UpdateItem(ctx context.Context, it core.Item) error {
	return c.do(ctx, "update item", http.MethodPut, path("items", it.ID), nil, fromItem(it), nil)
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, "delete item", http.MethodDelete, path("items", id), nil, nil, nil)
}

func (c *Client) ReplaceItems(ctx context.Context, items []core.Item) error {
	env := itemsEnvelope{UserItems: make([]item, len(items))}
	for i, it := range items {
		env.UserItems[i] = fromItem(it)
	}
	return c.do(ctx, "replace items", http.MethodPut, path("items"), nil, env, nil)
}

// ListLogs returns the entries of month, served from the cache when fresh. A zero month lists everything.
func (c *Client) ListLogs(ctx context.Context, month time.Month) ([]core.LogEntry, error) {
	key := monthKey(month)
	if cached, ok := c.logs.Get(key); ok {
		return append([]core.LogEntry(nil), cached...), nil
	}

	var q url.Values
	if month != 0 {
		q = url.Values{"month": {core.MonthName(month)}}
	}
	var env logsEnvelope
	if err := c.do(ctx, "list logs", http.MethodGet, path("logs"), q, nil, &env); err != nil {
		return nil, err
	}
	logs := make([]core.LogEntry, len(env.UserLogs))
	for i, w := range env.UserLogs {
		e, err := w.toCore(c.loc)
		if err != nil {
			return nil, &FetchError{Op: "list logs", Err: fmt.Errorf("decode response: %w", err)}
		}
		logs[i] = e
	}
	c.logs.Set(key, logs)
	return append([]core.LogEntry(nil), logs...), nil
}

func (c *Client) AppendLog(ctx context.Context, e core.LogEntry) error {
	defer c.logs.Clear()
	return c.do(ctx, "append log", http.MethodPost, path("logs"), nil, fromLog(e, c.loc), nil)
}

func (c *Client) DeleteLog(ctx context.Context, id string) error {
	defer c.logs.Clear()
	return c.do(ctx, "delete log", http.MethodDelete, path("logs", id), nil, nil, nil)
}

// endpoint is a path below the base URL, one element per segment.
type endpoint []string

func path(segments ...string) endpoint { return segments }

func (e endpoint) String() string { return "/" + strings.Join(e, "/") }

func (c *Client) do(ctx context.Context, op, method string, ep endpoint, query url.Values, body, out any) error {
	escaped := make([]string, len(ep))
	for i, seg := range ep {
		escaped[i] = url.PathEscape(seg)
	}
	u := *c.base
	u.Path = c.base.Path + ep.String()
	u.RawPath = c.base.EscapedPath() + "/" + strings.Join(escaped, "/")
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Remote request failed", "op", op, "method", method, "path", ep.String(), "error", err)
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "Remote request",
		"op", op,
		"method", method,
		"path", ep.String(),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	limited := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Op: op, Status: resp.StatusCode, Err: statusError(resp.StatusCode, limited)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, limited)
		return nil
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(status int, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	text := strings.TrimSpace(string(msg))
	if text == "" {
		text = http.StatusText(status)
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%s: %w", text, core.ErrNotFound)
	}
	return errors.New(text)
}
