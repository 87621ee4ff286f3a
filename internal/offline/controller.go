// Package offline implements an offline-capable edge cache. The controller
// sits between browsers and both the app origin and the remote-data
// provider, answering from named caches when the network is unavailable.
package offline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInstallFailed  = errors.New("install failed")
	ErrNotInstalled   = errors.New("controller is not installed")
	ErrHostNotAllowed = errors.New("host is not allowed")
)

// State is the controller lifecycle position.
type State string

const (
	StateParsed     State = "parsed"
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActive     State = "active"
	StateRedundant  State = "redundant"
)

// Routing strategies, also used as metric labels.
const (
	strategyNavigation = "navigation"
	strategyAPI        = "api"
	strategyWrite      = "write"
	strategyStatic     = "static"
	strategyDefault    = "default"
)

// refreshTimeout bounds a shared API refresh, which outlives the caller
// that started it.
const refreshTimeout = 30 * time.Second

// HTTPDoer is the part of http.Client the controller uses.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Controller routes intercepted requests between network and caches.
type Controller struct {
	cfg      Config
	origin   *url.URL
	storage  Storage
	client   HTTPDoer
	metrics  metrics.Metrics
	notifier notifier.Notifier
	now      func() time.Time

	mu    sync.RWMutex
	state State

	refresh singleflight.Group
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, mainly for freshness window tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithNotifier sets where push events are delivered.
func WithNotifier(n notifier.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

func NewController(cfg Config, storage Storage, client HTTPDoer, m metrics.Metrics, opts ...Option) (*Controller, error) {
	origin, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		origin:  origin,
		storage: storage,
		client:  client,
		metrics: m,
		now:     time.Now,
		state:   StateParsed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.Debug("Controller state change", "from", c.state, "to", s)
	c.state = s
}

// Install precaches the manifest and the offline page. Every entry is
// fetched before anything is written, so a failed install leaves no cache
// behind and the controller becomes redundant.
func (c *Controller) Install(ctx context.Context) error {
	c.setState(StateInstalling)
	log.Info("Installing offline cache", "cache", c.cfg.CoreCacheName(), "entries", len(c.cfg.Manifest)+1)

	paths := append(append([]string{}, c.cfg.Manifest...), c.cfg.OfflineURL)
	fetched := make(map[string]*Entry, len(paths))
	for _, p := range paths {
		target := c.origin.ResolveReference(&url.URL{Path: p})
		entry, err := c.precache(ctx, target)
		if err != nil {
			c.setState(StateRedundant)
			log.Error("Failed to precache entry", "error", err, "url", target.String())
			return fmt.Errorf("%w: %s: %w", ErrInstallFailed, target, err)
		}
		fetched[RequestKey(http.MethodGet, target.String())] = entry
	}

	core, err := c.storage.Open(ctx, c.cfg.CoreCacheName())
	if err != nil {
		c.setState(StateRedundant)
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}
	for key, entry := range fetched {
		if err := core.Put(ctx, key, entry); err != nil {
			c.setState(StateRedundant)
			if _, derr := c.storage.Delete(ctx, c.cfg.CoreCacheName()); derr != nil {
				log.Error("Failed to discard partial core cache", "error", derr)
			}
			return fmt.Errorf("%w: %w", ErrInstallFailed, err)
		}
	}

	c.setState(StateInstalled)
	log.Info("Offline cache installed, taking over immediately", "cache", c.cfg.CoreCacheName())
	return nil
}

func (c *Controller) precache(ctx context.Context, target *url.URL) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if !cacheable(resp.StatusCode) {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Entry{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body, StoredAt: c.now()}, nil
}

// Activate deletes every cache owned by this app that is not current, then
// claims all traffic. It returns the names it deleted. A failure leaves the
// controller redundant.
func (c *Controller) Activate(ctx context.Context) ([]string, error) {
	if s := c.State(); s != StateInstalled {
		return nil, fmt.Errorf("%w: state is %s", ErrNotInstalled, s)
	}
	c.setState(StateActivating)

	purged, err := c.purgeStale(ctx)
	c.metrics.AddCachesPurged(len(purged))
	if err != nil {
		c.setState(StateRedundant)
		log.Error("Activation failed", "error", err, "purged", len(purged))
		return purged, err
	}

	c.setState(StateActive)
	log.Info("Offline cache active", "purged", len(purged))
	return purged, nil
}

func (c *Controller) purgeStale(ctx context.Context) ([]string, error) {
	names, err := c.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	current := map[string]bool{
		c.cfg.CoreCacheName(): true,
		c.cfg.APICacheName():  true,
	}
	owned := c.cfg.Prefix + "-"
	var purged []string
	for _, name := range names {
		if current[name] || !strings.HasPrefix(name, owned) {
			continue
		}
		if _, err := c.storage.Delete(ctx, name); err != nil {
			return purged, fmt.Errorf("failed to delete cache %s: %w", name, err)
		}
		log.Info("Deleted stale cache", "cache", name)
		purged = append(purged, name)
	}

	if _, err := c.storage.Open(ctx, c.cfg.APICacheName()); err != nil {
		return purged, fmt.Errorf("failed to open api cache: %w", err)
	}
	return purged, nil
}

// CacheNames lists every cache currently in storage.
func (c *Controller) CacheNames(ctx context.Context) ([]string, error) {
	return c.storage.Keys(ctx)
}

// Fetch answers one intercepted request. Network failures on intercepted
// requests never surface as errors; they are answered from cache or with a
// synthesized response. An error is only returned for requests passed
// through untouched, or with ErrHostNotAllowed for absolute targets that are
// neither the app origin nor the remote-data provider.
func (c *Controller) Fetch(ctx context.Context, r *http.Request) (*http.Response, error) {
	target := c.resolve(r)
	if !c.allowedHost(target) {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, target.Host)
	}
	if c.State() != StateActive {
		return c.network(ctx, r, target)
	}

	if c.isAPIHost(target) {
		return c.handleAPI(ctx, r, target), nil
	}
	if r.Method != http.MethodGet {
		return c.network(ctx, r, target)
	}
	key := RequestKey(http.MethodGet, target.String())

	switch {
	case isNavigation(r):
		return c.networkFirst(ctx, r, target, key, strategyNavigation), nil
	case isStaticAsset(r, target):
		return c.cacheFirst(ctx, r, target, key), nil
	default:
		return c.networkFirst(ctx, r, target, key, strategyDefault), nil
	}
}

func (c *Controller) handleAPI(ctx context.Context, r *http.Request, target *url.URL) *http.Response {
	if r.Method == http.MethodGet && strings.Contains(target.Path, c.cfg.ReadPath) {
		return c.freshnessWindow(ctx, r, target)
	}

	strategy := strategyWrite
	message := "This action is unavailable while offline."
	if r.Method == http.MethodGet {
		strategy = strategyAPI
		message = "This data is unavailable while offline."
	}
	resp, err := c.network(ctx, r, target)
	if err != nil {
		c.metrics.IncNetworkFailure(strategy)
		c.metrics.IncOfflineFallback(strategy)
		log.Warn("Remote data request failed", "error", err, "method", r.Method, "url", target.String())
		return offlineResponse(r, message)
	}
	return resp
}

// freshnessWindow serves remote reads from the API cache while the entry is
// younger than the ttl, refreshing it from the network otherwise.
func (c *Controller) freshnessWindow(ctx context.Context, r *http.Request, target *url.URL) *http.Response {
	key := RequestKey(http.MethodGet, target.String())
	cache, err := c.storage.Open(ctx, c.cfg.APICacheName())
	if err != nil {
		log.Error("API cache unavailable", "error", err)
		cache = nil
	}

	var stale *Entry
	if cache != nil {
		if entry, ok := c.lookup(ctx, cache, key); ok {
			if c.fresh(entry) {
				c.metrics.IncCacheHit(strategyAPI)
				return entry.response(r)
			}
			stale = entry
		}
	}
	c.metrics.IncCacheMiss(strategyAPI)

	// Concurrent refreshes of the same key share one upstream call. The call
	// is detached from the caller that started it; each caller only stops
	// waiting when its own context ends.
	ch := c.refresh.DoChan(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		resp, err := c.network(rctx, r, target)
		if err != nil {
			return nil, err
		}
		entry, err := snapshot(resp, c.now())
		if err != nil {
			return nil, err
		}
		if cache != nil && cacheable(entry.Status) {
			stored := entry.clone()
			stored.Header.Set(TimestampHeader, strconv.FormatInt(c.now().UnixMilli(), 10))
			if err := cache.Put(rctx, key, stored); err != nil {
				log.Error("Failed to store API response", "error", err, "key", key)
			}
		}
		return entry, nil
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}
	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		c.metrics.IncNetworkFailure(strategyAPI)
		if stale != nil {
			log.Info("Serving stale API response", "key", key, "storedAt", stale.StoredAt)
			return stale.response(r)
		}
		c.metrics.IncOfflineFallback(strategyAPI)
		log.Warn("API read failed with nothing cached", "error", err, "key", key)
		return offlineResponse(r, "This data is unavailable while offline.")
	}
	if shared {
		log.Debug("Shared in-flight API refresh", "key", key)
	}
	return v.(*Entry).response(r)
}

func (c *Controller) fresh(e *Entry) bool {
	ts, err := strconv.ParseInt(e.Header.Get(TimestampHeader), 10, 64)
	if err != nil {
		return false
	}
	return c.now().Sub(time.UnixMilli(ts)) < c.cfg.APITTL
}

// networkFirst tries the network, storing successes in the core cache, and
// falls back to the cached copy. Navigations fall back further to the
// offline page.
func (c *Controller) networkFirst(ctx context.Context, r *http.Request, target *url.URL, key, strategy string) *http.Response {
	core := c.openCore(ctx)

	resp, err := c.network(ctx, r, target)
	if err == nil {
		entry, serr := snapshot(resp, c.now())
		if serr == nil {
			c.store(ctx, core, key, entry)
			return entry.response(r)
		}
		err = serr
	}
	c.metrics.IncNetworkFailure(strategy)
	log.Debug("Network request failed, trying cache", "error", err, "url", target.String(), "strategy", strategy)

	if core != nil {
		if entry, ok := c.lookup(ctx, core, key); ok {
			c.metrics.IncCacheHit(strategy)
			return entry.response(r)
		}
	}
	c.metrics.IncCacheMiss(strategy)

	if strategy == strategyNavigation {
		c.metrics.IncOfflineFallback(strategy)
		if core != nil {
			offlineKey := RequestKey(http.MethodGet, c.origin.ResolveReference(&url.URL{Path: c.cfg.OfflineURL}).String())
			if entry, ok := c.lookup(ctx, core, offlineKey); ok {
				return entry.response(r)
			}
		}
		log.Error("Offline page missing from core cache", "url", c.cfg.OfflineURL)
		return textResponse(r, http.StatusServiceUnavailable, "You are offline.")
	}
	return unavailableResponse(r)
}

// cacheFirst answers static assets from the core cache, fetching and
// storing them on a miss.
func (c *Controller) cacheFirst(ctx context.Context, r *http.Request, target *url.URL, key string) *http.Response {
	core := c.openCore(ctx)
	if core != nil {
		if entry, ok := c.lookup(ctx, core, key); ok {
			c.metrics.IncCacheHit(strategyStatic)
			return entry.response(r)
		}
	}
	c.metrics.IncCacheMiss(strategyStatic)

	resp, err := c.network(ctx, r, target)
	if err == nil {
		entry, serr := snapshot(resp, c.now())
		if serr == nil {
			c.store(ctx, core, key, entry)
			return entry.response(r)
		}
		err = serr
	}
	c.metrics.IncNetworkFailure(strategyStatic)
	log.Debug("Static asset unavailable", "error", err, "url", target.String())

	// Another request may have stored it meanwhile.
	if core != nil {
		if entry, ok := c.lookup(ctx, core, key); ok {
			return entry.response(r)
		}
	}
	return unavailableResponse(r)
}

func (c *Controller) openCore(ctx context.Context) Cache {
	core, err := c.storage.Open(ctx, c.cfg.CoreCacheName())
	if err != nil {
		log.Error("Core cache unavailable", "error", err)
		return nil
	}
	return core
}

func (c *Controller) lookup(ctx context.Context, cache Cache, key string) (*Entry, bool) {
	entry, ok, err := cache.Match(ctx, key)
	if err != nil {
		log.Error("Cache lookup failed", "error", err, "key", key)
		return nil, false
	}
	return entry, ok
}

func (c *Controller) store(ctx context.Context, cache Cache, key string, entry *Entry) {
	if cache == nil || !cacheable(entry.Status) {
		return
	}
	if err := cache.Put(ctx, key, entry); err != nil {
		log.Error("Failed to store response", "error", err, "key", key)
	}
}

func (c *Controller) network(ctx context.Context, r *http.Request, target *url.URL) (*http.Response, error) {
	out := r.Clone(ctx)
	out.URL = target
	out.Host = ""
	out.RequestURI = ""
	return c.client.Do(out)
}

// resolve keeps absolute-form request targets and resolves the rest against
// the app origin.
func (c *Controller) resolve(r *http.Request) *url.URL {
	if r.URL.IsAbs() {
		return r.URL
	}
	return c.origin.ResolveReference(&url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery})
}

func (c *Controller) allowedHost(target *url.URL) bool {
	return strings.EqualFold(target.Host, c.origin.Host) || c.isAPIHost(target)
}

func (c *Controller) isAPIHost(target *url.URL) bool {
	if c.cfg.APIHost == "" {
		return false
	}
	host := strings.ToLower(target.Hostname())
	want := strings.ToLower(c.cfg.APIHost)
	return host == want || strings.HasSuffix(host, "."+want)
}
