// Package cache memoizes batch results so repeated UI-triggered refreshes
// within the staleness window of 5-minute data cause no network activity.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stockchart/internal/marketdata"
)

// Key identifies one batch computation: the ordered universe plus both
// window parameters.
type Key struct {
	Universe string
	Lookback time.Duration
	Display  time.Duration
}

// NewKey fingerprints an ordered universe and its window parameters.
func NewKey(universe []marketdata.Instrument, lookback, display time.Duration) Key {
	symbols := make([]string, len(universe))
	for i, inst := range universe {
		symbols[i] = inst.Symbol
	}
	return Key{
		Universe: strings.Join(symbols, ","),
		Lookback: lookback,
		Display:  display,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Universe, k.Lookback, k.Display)
}

// Value is one cached batch result. Total failures are cached like any
// other result, so a bad window does not turn every UI interaction inside
// the TTL into a retry storm; callers needing faster recovery shorten the
// TTL.
type Value struct {
	Dataset *marketdata.Dataset
	Failed  []string
}

type entry struct {
	value   Value
	written time.Time
}

// TTL is a keyed store with per-entry expiry. Concurrent callers missing
// on the same key share a single in-flight computation.
type TTL struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[Key]entry
}

// NewTTL creates a cache whose entries expire ttl after being written.
func NewTTL(ttl time.Duration) *TTL {
	return &TTL{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[Key]entry),
	}
}

// SetClock replaces the time source, letting tests control expiry.
func (c *TTL) SetClock(now func() time.Time) {
	c.now = now
}

// GetOrCompute returns the stored value for key if it is still fresh,
// otherwise runs compute once (even under concurrent misses), stores its
// result, and returns it.
func (c *TTL) GetOrCompute(ctx context.Context, key Key, compute func(ctx context.Context) Value) Value {
	if v, ok := c.lookup(key); ok {
		return v
	}

	v, _, _ := c.group.Do(key.String(), func() (any, error) {
		// a concurrent caller may have stored the entry between our miss
		// and this flight starting
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v := compute(ctx)
		c.mu.Lock()
		c.entries[key] = entry{value: v, written: c.now()}
		c.mu.Unlock()
		return v, nil
	})
	return v.(Value)
}

func (c *TTL) lookup(key Key) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Value{}, false
	}
	if c.now().Sub(e.written) >= c.ttl {
		delete(c.entries, key)
		return Value{}, false
	}
	return e.value, true
}
