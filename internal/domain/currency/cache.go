package currency

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/clock"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

// DefaultTTL is how long a loaded rate set stays fresh.
const DefaultTTL = 5 * time.Minute

// RateSource reads the persisted rate table.
type RateSource interface {
	ListRates(ctx context.Context) ([]ExchangeRate, error)
}

// Snapshot describes the cache content at one moment.
type Snapshot struct {
	Rates       Rates
	RefreshedAt time.Time
	Fallback    bool
	Stale       bool
}

// RateCache is a time-bounded, lazily refreshed view of the rate table.
//
// Concurrent callers that observe an expired cache may each refresh it;
// every refresh produces the same content, so no single-flight is used.
// The mutex only keeps map access memory safe.
type RateCache struct {
	source RateSource
	clock  clock.Clock
	ttl    time.Duration

	mu          sync.RWMutex
	rates       Rates
	refreshedAt time.Time
	fallback    bool
}

// NewRateCache creates an empty cache. A zero ttl means DefaultTTL.
func NewRateCache(source RateSource, clk clock.Clock, ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &RateCache{source: source, clock: clk, ttl: ttl}
}

// Get returns the cached rates, refreshing them first when stale.
// The returned map is a copy.
func (c *RateCache) Get(ctx context.Context) Rates {
	if c.IsStale() {
		c.Refresh(ctx)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rates.Clone()
}

// Refresh reloads the rate table. On a read error the fallback set is
// installed instead; Refresh itself never fails.
// The read ignores cancellation of ctx: the result is shared by every
// caller for a whole TTL and must not depend on one aborted request.
func (c *RateCache) Refresh(ctx context.Context) {
	fresh := Rates{Base: decimal.NewFromInt(1)}
	fallback := false

	rows, err := c.source.ListRates(context.WithoutCancel(ctx))
	if err != nil {
		logger.Warn(ctx, "exchange rates unavailable, using fallback rates", "error", err)
		fresh = FallbackRates()
		fallback = true
	} else {
		for _, row := range rows {
			code := Normalize(row.CurrencyCode)
			if code == Base {
				continue
			}
			if !row.RateToBase.IsPositive() {
				logger.Warn(ctx, "ignoring non-positive exchange rate", "currency", code, "rate", row.RateToBase)
				continue
			}
			fresh[code] = row.RateToBase
		}
	}

	now := c.clock.Now()

	c.mu.Lock()
	c.rates = fresh
	c.refreshedAt = now
	c.fallback = fallback
	c.mu.Unlock()

	logger.Debug(ctx, "exchange rates refreshed", "count", len(fresh), "fallback", fallback)
}

// IsStale reports whether the cache is empty or older than its TTL.
func (c *RateCache) IsStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.staleLocked()
}

func (c *RateCache) staleLocked() bool {
	return len(c.rates) == 0 || c.clock.Now().Sub(c.refreshedAt) >= c.ttl
}

// Snapshot returns the current content without triggering a refresh.
func (c *RateCache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Rates:       c.rates.Clone(),
		RefreshedAt: c.refreshedAt,
		Fallback:    c.fallback,
		Stale:       c.staleLocked(),
	}
}
