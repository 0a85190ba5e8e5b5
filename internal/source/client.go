// Package source fetches the orders, machines and schedule collections from the
// plant planning API.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"production_advisor/internal/logger"
	"production_advisor/internal/metrics"
	"production_advisor/internal/normalize"

	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

// ErrUpstreamStatus is returned when the upstream answers with a non-retryable status.
var ErrUpstreamStatus = errors.New("upstream returned unexpected status")

const maxBodyBytes = 32 << 20

// Config describes where and how to reach the planning API.
type Config struct {
	BaseURL      string
	OrdersPath   string
	MachinesPath string
	SchedulePath string
	Timeout      time.Duration
	MaxRetries   int
	BackoffSlot  time.Duration
	BackoffMax   time.Duration
	CacheTTL     time.Duration
}

// DefaultConfig returns the kera API paths with conservative timeouts.
func DefaultConfig() Config {
	return Config{
		OrdersPath:   "/order",
		MachinesPath: "/machine",
		SchedulePath: "/schedule",
		Timeout:      10 * time.Second,
		MaxRetries:   3,
		BackoffSlot:  200 * time.Millisecond,
		BackoffMax:   5 * time.Second,
		CacheTTL:     10 * time.Second,
	}
}

// Client fetches raw collections and caches successful payloads for CacheTTL.
type Client struct {
	cfg   Config
	http  *http.Client
	cache *cache.Cache
	log   *logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient returns a client for cfg. Zero durations fall back to DefaultConfig values.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("source: base url is required")
	}
	def := DefaultConfig()
	if cfg.OrdersPath == "" {
		cfg.OrdersPath = def.OrdersPath
	}
	if cfg.MachinesPath == "" {
		cfg.MachinesPath = def.MachinesPath
	}
	if cfg.SchedulePath == "" {
		cfg.SchedulePath = def.SchedulePath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = def.BackoffMax
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	// a non-positive TTL disables caching
	var c *cache.Cache
	if cfg.CacheTTL > 0 {
		c = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: c,
		log:   log,
		sleep: sleepCtx,
	}, nil
}

// Fetch GETs the three collections concurrently. Any collection failing fails the fetch.
func (c *Client) Fetch(ctx context.Context) (normalize.RawSnapshot, error) {
	var raw normalize.RawSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		raw.Orders, err = c.collection(gctx, normalize.CollectionOrders, c.cfg.OrdersPath)
		return err
	})
	g.Go(func() (err error) {
		raw.Machines, err = c.collection(gctx, normalize.CollectionMachines, c.cfg.MachinesPath)
		return err
	})
	g.Go(func() (err error) {
		raw.Schedule, err = c.collection(gctx, normalize.CollectionSchedule, c.cfg.SchedulePath)
		return err
	})
	if err := g.Wait(); err != nil {
		return normalize.RawSnapshot{}, err
	}
	return raw, nil
}

// Invalidate drops every cached payload.
func (c *Client) Invalidate() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

func (c *Client) collection(ctx context.Context, name, path string) ([]normalize.Record, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(name); ok {
			return v.([]normalize.Record), nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, backoffTime(attempt, c.cfg.BackoffSlot, c.cfg.BackoffMax)); err != nil {
				return nil, err
			}
		}

		recs, retry, err := c.get(ctx, path)
		if err == nil {
			if c.cache != nil {
				c.cache.SetDefault(name, recs)
			}
			return recs, nil
		}

		metrics.UpstreamFetchFailures.WithLabelValues(name).Inc()
		c.log.Warnw("upstream_fetch_failed", "collection", name, "attempt", attempt+1, "err", err)
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", name, lastErr)
}

// get performs one request. retry reports whether the failure is transient.
func (c *Client) get(ctx context.Context, path string) (recs []normalize.Record, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	recs, err = Decode(body)
	if err != nil {
		return nil, false, err
	}
	return recs, false, nil
}

// Decode parses a JSON array of objects. A JSON null yields a nil collection;
// an empty array yields an empty, non-nil one.
func Decode(body []byte) ([]normalize.Record, error) {
	var recs []normalize.Record
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("decode upstream payload: %w", err)
	}
	return recs, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
