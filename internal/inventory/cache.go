// Package inventory tracks, per ticket template, how many active tickets have been issued
// against its capacity. Counts are loaded from the template store on first use and kept in
// step with it by serialising every read and write of a key on that key's lock stripe.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"ticketinventory/internal/domain"
)

const (
	defaultCacheSize       = 4096
	defaultLockStripes     = 64
	defaultWarmConcurrency = 8
)

var (
	// ErrCapacityExceeded is returned when a reservation would push the assigned count past capacity.
	ErrCapacityExceeded = errors.New("template capacity exceeded")
	// ErrInvalidState signals bookkeeping that cannot be right, such as releasing below zero.
	ErrInvalidState = errors.New("inventory invalid state")
)

// Loader reads the durable capacity and assigned count of a template.
// domain.TemplateRepository satisfies it.
type Loader interface {
	LoadAggregate(ctx context.Context, key domain.TemplateKey) (capacity, assigned int, err error)
}

// Aggregate is a snapshot of one template's counters.
type Aggregate struct {
	Key      domain.TemplateKey
	Capacity int
	Assigned int
}

// Remaining is the number of tickets that can still be issued.
func (a Aggregate) Remaining() int {
	return max(a.Capacity-a.Assigned, 0)
}

// Options configures a Cache. Zero values fall back to defaults.
type Options struct {
	Size            int
	LockStripes     int
	WarmConcurrency int
	Metrics         *Metrics
}

type entry struct {
	capacity int
	assigned int
}

// Cache maps template keys to live aggregates.
type Cache struct {
	loader          Loader
	entries         *lru.Cache[domain.TemplateKey, *entry]
	stripes         []sync.Mutex
	seed            maphash.Seed
	warmConcurrency int
	metrics         *Metrics
}

// NewCache returns a Cache backed by loader.
func NewCache(loader Loader, opts Options) (*Cache, error) {
	if loader == nil {
		return nil, errors.New("inventory: loader is required")
	}
	if opts.Size <= 0 {
		opts.Size = defaultCacheSize
	}
	if opts.LockStripes <= 0 {
		opts.LockStripes = defaultLockStripes
	}
	if opts.WarmConcurrency <= 0 {
		opts.WarmConcurrency = defaultWarmConcurrency
	}
	c := &Cache{
		loader:          loader,
		stripes:         make([]sync.Mutex, opts.LockStripes),
		seed:            maphash.MakeSeed(),
		warmConcurrency: opts.WarmConcurrency,
		metrics:         opts.Metrics,
	}
	entries, err := lru.NewWithEvict[domain.TemplateKey, *entry](opts.Size, func(domain.TemplateKey, *entry) {
		c.metrics.evicted()
	})
	if err != nil {
		return nil, fmt.Errorf("inventory: create lru: %w", err)
	}
	c.entries = entries
	return c, nil
}

func (c *Cache) stripe(key domain.TemplateKey) *sync.Mutex {
	h := maphash.Comparable(c.seed, key)
	return &c.stripes[h%uint64(len(c.stripes))]
}

// Exclusive runs fn while holding the exclusion for key. No other Get, TryReserve,
// Release or Invalidate on key can interleave with fn. fn must not call those Cache
// methods for the same key; it uses tx instead.
func (c *Cache) Exclusive(ctx context.Context, key domain.TemplateKey, fn func(tx *Tx) error) error {
	mu := c.stripe(key)
	mu.Lock()
	defer mu.Unlock()
	return fn(&Tx{cache: c, key: key})
}

// Get returns the current aggregate for key, loading it if it is not cached.
func (c *Cache) Get(ctx context.Context, key domain.TemplateKey) (Aggregate, error) {
	var agg Aggregate
	err := c.Exclusive(ctx, key, func(tx *Tx) error {
		var err error
		agg, err = tx.Aggregate(ctx)
		return err
	})
	return agg, err
}

// TryReserve adds delta to the assigned count if capacity allows and returns the new count.
func (c *Cache) TryReserve(ctx context.Context, key domain.TemplateKey, delta int) (int, error) {
	var n int
	err := c.Exclusive(ctx, key, func(tx *Tx) error {
		var err error
		n, err = tx.TryReserve(ctx, delta)
		return err
	})
	return n, err
}

// Release subtracts delta from the assigned count and returns the new count.
func (c *Cache) Release(ctx context.Context, key domain.TemplateKey, delta int) (int, error) {
	var n int
	err := c.Exclusive(ctx, key, func(tx *Tx) error {
		var err error
		n, err = tx.Release(ctx, delta)
		return err
	})
	return n, err
}

// Invalidate drops key so the next access reloads it.
func (c *Cache) Invalidate(key domain.TemplateKey) {
	mu := c.stripe(key)
	mu.Lock()
	defer mu.Unlock()
	c.entries.Remove(key)
}

// Len is the number of cached templates.
func (c *Cache) Len() int { return c.entries.Len() }

// Warm loads keys concurrently. It stops at the first failure.
func (c *Cache) Warm(ctx context.Context, keys []domain.TemplateKey) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.warmConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			if _, err := c.Get(gctx, key); err != nil {
				return fmt.Errorf("warm %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Tx is the view of one key handed to Exclusive callbacks. It is only valid inside the
// callback.
type Tx struct {
	cache *Cache
	key   domain.TemplateKey
	e     *entry
}

// Key returns the template key the transaction is bound to.
func (tx *Tx) Key() domain.TemplateKey { return tx.key }

func (tx *Tx) load(ctx context.Context) (*entry, error) {
	if tx.e != nil {
		return tx.e, nil
	}
	c := tx.cache
	if e, ok := c.entries.Get(tx.key); ok {
		c.metrics.hit()
		tx.e = e
		return e, nil
	}
	c.metrics.miss()
	capacity, assigned, err := c.loader.LoadAggregate(ctx, tx.key)
	if err != nil {
		return nil, err
	}
	if capacity < 0 || assigned < 0 {
		return nil, fmt.Errorf("%w: %s loaded capacity=%d assigned=%d", ErrInvalidState, tx.key, capacity, assigned)
	}
	e := &entry{capacity: capacity, assigned: assigned}
	c.entries.Add(tx.key, e)
	tx.e = e
	return e, nil
}

// Aggregate returns the key's counters, loading them if needed.
func (tx *Tx) Aggregate(ctx context.Context) (Aggregate, error) {
	e, err := tx.load(ctx)
	if err != nil {
		return Aggregate{}, err
	}
	return Aggregate{Key: tx.key, Capacity: e.capacity, Assigned: e.assigned}, nil
}

// TryReserve adds delta if assigned+delta stays within capacity.
func (tx *Tx) TryReserve(ctx context.Context, delta int) (int, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("%w: reserve delta must be positive, got %d", domain.ErrInvalidInput, delta)
	}
	e, err := tx.load(ctx)
	if err != nil {
		return 0, err
	}
	if e.assigned+delta > e.capacity {
		tx.cache.metrics.rejected()
		return e.assigned, ErrCapacityExceeded
	}
	e.assigned += delta
	tx.cache.metrics.reserved(delta)
	return e.assigned, nil
}

// Release subtracts delta. Going below zero leaves the count unchanged and returns
// ErrInvalidState.
func (tx *Tx) Release(ctx context.Context, delta int) (int, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("%w: release delta must be positive, got %d", domain.ErrInvalidInput, delta)
	}
	e, err := tx.load(ctx)
	if err != nil {
		return 0, err
	}
	if e.assigned-delta < 0 {
		return e.assigned, fmt.Errorf("%w: %s release of %d with %d assigned", ErrInvalidState, tx.key, delta, e.assigned)
	}
	e.assigned -= delta
	tx.cache.metrics.released(delta)
	return e.assigned, nil
}

// Invalidate drops the key from the cache; later calls on tx reload it.
func (tx *Tx) Invalidate() {
	tx.cache.entries.Remove(tx.key)
	tx.e = nil
}
