package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

// RatesChangedChannel is notified by a trigger on exchange_rates.
const RatesChangedChannel = "exchange_rates_changed"

// Refresher reloads a cache from its source.
type Refresher interface {
	Refresh(ctx context.Context)
}

// RateListener refreshes the exchange rate cache as soon as the rate table
// changes, via PostgreSQL LISTEN/NOTIFY. The cache TTL still applies when
// no notification arrives.
type RateListener struct {
	pool  *pgxpool.Pool
	cache Refresher

	// Lifecycle
	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool

	mu       sync.Mutex
	received int
}

// NewRateListener creates a listener for cache.
func NewRateListener(pool *pgxpool.Pool, cache Refresher) *RateListener {
	return &RateListener{pool: pool, cache: cache}
}

// Start loads the cache once and begins listening in the background.
func (l *RateListener) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	l.lifecycleMu.Lock()
	if l.started {
		l.lifecycleMu.Unlock()
		return nil
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.started = true
	l.lifecycleMu.Unlock()

	l.cache.Refresh(l.ctx)

	l.wg.Add(1)
	go l.listenLoop()
	logger.Info(l.ctx, "rate listener started", "channel", RatesChangedChannel)
	return nil
}

// Stop ends the listener and waits for it to exit.
func (l *RateListener) Stop() {
	l.lifecycleMu.Lock()
	if !l.started {
		l.lifecycleMu.Unlock()
		return
	}
	cancel := l.cancel
	l.started = false
	l.cancel = nil
	l.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
	logger.Info(context.Background(), "rate listener stopped")
}

// Received returns the number of notifications handled so far.
func (l *RateListener) Received() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.received
}

func (l *RateListener) listenLoop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		// Acquire dedicated connection for LISTEN
		conn, err := l.pool.Acquire(l.ctx)
		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			logger.Error(l.ctx, "failed to acquire connection for LISTEN", "error", err)
			l.sleep(time.Second)
			continue
		}

		_, err = conn.Exec(l.ctx, fmt.Sprintf("LISTEN %s", RatesChangedChannel))
		if err != nil {
			logger.Error(l.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			l.sleep(time.Second)
			continue
		}

		l.waitForNotifications(conn)
		conn.Release()
	}
}

func (l *RateListener) waitForNotifications(conn *pgxpool.Conn) {
	for {
		if l.ctx.Err() != nil {
			return
		}

		// Wait with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(l.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			if ctx.Err() != nil {
				// Timeout is expected, continue listening
				continue
			}
			// connection broken, reacquire
			logger.Warn(l.ctx, "notification wait failed", "error", err)
			return
		}

		l.handleNotification(notification.Channel, notification.Payload)
	}
}

func (l *RateListener) handleNotification(channel, payload string) {
	if channel != RatesChangedChannel {
		return
	}

	logger.Debug(l.ctx, "exchange rates changed", "currency", payload)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(l.ctx, "rate refresh panic recovered", "panic", r)
		}
	}()
	l.cache.Refresh(l.ctx)

	l.mu.Lock()
	l.received++
	l.mu.Unlock()
}

func (l *RateListener) sleep(d time.Duration) {
	select {
	case <-l.ctx.Done():
	case <-time.After(d):
	}
}
