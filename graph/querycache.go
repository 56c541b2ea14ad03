package graph

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/agentrecall/temporalcore/internal/clock"
	"github.com/agentrecall/temporalcore/internal/logging"
)

var log = logging.Module("temporalcore/graph")

const sweepFrequency = 1 * time.Minute

// QueryCache wraps a Store with a read-through cache keyed by
// (cypherText, params), bounded by an entry count rather than a byte
// size since graph query results are small relative to blob payloads.
// A background goroutine periodically retains only the most recently
// used entries up to the configured maximum.
type QueryCache struct {
	upstream   Store
	maxEntries int

	mu      sync.Mutex
	entries map[string]*cacheEntry
	closed  chan struct{}
}

type cacheEntry struct {
	rows       []Row
	lastAccess time.Time
}

// NewQueryCache returns a QueryCache in front of upstream. Each periodic
// sweep trims it to the maxEntries most recently used results; between
// sweeps it may hold more. A maxEntries of 0 disables caching: every
// query passes straight through.
func NewQueryCache(upstream Store, maxEntries int) *QueryCache {
	c := &QueryCache{
		upstream:   upstream,
		maxEntries: maxEntries,
		entries:    map[string]*cacheEntry{},
		closed:     make(chan struct{}),
	}
	if maxEntries > 0 {
		go c.sweepPeriodically()
	}
	return c
}

// Close stops the background sweep goroutine. Safe to call once.
func (c *QueryCache) Close() {
	close(c.closed)
}

// Query implements Store, serving from cache when possible.
func (c *QueryCache) Query(ctx context.Context, cypherText string, params map[string]interface{}) ([]Row, error) {
	if c.maxEntries <= 0 {
		return c.upstream.Query(ctx, cypherText, params)
	}

	key, err := cacheKey(cypherText, params)
	if err != nil {
		// Unkeyable params (e.g. a channel) just bypass the cache.
		return c.upstream.Query(ctx, cypherText, params)
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.lastAccess = clock.Now()
		rows := e.rows
		c.mu.Unlock()
		return rows, nil
	}
	c.mu.Unlock()

	rows, err := c.upstream.Query(ctx, cypherText, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{rows: rows, lastAccess: clock.Now()}
	c.mu.Unlock()

	return rows, nil
}

func cacheKey(cypherText string, params map[string]interface{}) (string, error) {
	encodedParams, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return cypherText + "\x00" + string(encodedParams), nil
}

func (c *QueryCache) sweepPeriodically() {
	for {
		select {
		case <-c.closed:
			return
		case <-time.After(sweepFrequency):
			c.sweep()
		}
	}
}

func (c *QueryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) <= c.maxEntries {
		return
	}

	type keyed struct {
		key        string
		lastAccess time.Time
	}
	all := make([]keyed, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, keyed{k, e.lastAccess})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].lastAccess.After(all[j].lastAccess)
	})

	log(context.Background()).Debugw("sweeping graph query cache", "entries", len(all), "maxEntries", c.maxEntries)

	for _, k := range all[c.maxEntries:] {
		delete(c.entries, k.key)
	}
}
