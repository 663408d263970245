// Package cache stores immutable snapshots of ended auctions so the batch
// fetcher can skip re-reading history from the rate-limited RPC endpoint.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/store"
)

// ErrNotTerminal is returned by Put for snapshots that are not in the ended
// phase. A non-terminal auction's state still changes, so caching it would
// serve stale data as truth.
var ErrNotTerminal = errors.New("cache: auction snapshot is not terminal")

// DefaultFreshness is how long a cached terminal snapshot is served before
// it is refetched.
const DefaultFreshness = 10 * time.Minute

// Entry is a cached terminal-auction snapshot.
type Entry struct {
	Auction  auction.Auction `json:"auction"`
	CachedAt int64           `json:"cached_at"`
}

// EndedAuctionCache persists terminal auction snapshots with age-based
// invalidation. The key space is unbounded but naturally small (one entry
// per auction), so there is no size-based eviction.
type EndedAuctionCache struct {
	kv        store.KV
	freshness time.Duration
	now       func() time.Time
}

// New creates a cache with the given freshness window. A zero window falls
// back to DefaultFreshness.
func New(kv store.KV, freshness time.Duration) *EndedAuctionCache {
	return NewWithClock(kv, freshness, time.Now)
}

// NewWithClock creates a cache with an injected time source, so tests and
// the aggregator's clock stay in agreement.
func NewWithClock(kv store.KV, freshness time.Duration, now func() time.Time) *EndedAuctionCache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &EndedAuctionCache{
		kv:        kv,
		freshness: freshness,
		now:       now,
	}
}

// Get returns the cached snapshot for the auction if present and fresh.
// A stale or missing entry yields ok == false.
func (c *EndedAuctionCache) Get(addr common.Address) (*Entry, bool, error) {
	data, err := c.kv.Get(store.EndedCacheKey(addr))
	if err == store.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry: %w", err)
	}
	if !c.Fresh(e.CachedAt) {
		return nil, false, nil
	}
	return &e, true, nil
}

// Put stores a terminal snapshot. Snapshots whose derived phase is not ended
// are rejected with ErrNotTerminal.
func (c *EndedAuctionCache) Put(a *auction.Auction) error {
	if a.PhaseAt(c.now()) != auction.PhaseEnded {
		return fmt.Errorf("%w: %s", ErrNotTerminal, a.Address)
	}

	e := Entry{Auction: *a, CachedAt: c.now().Unix()}
	data, err := json.Marshal(&e)
	if err != nil {
		return err
	}
	return c.kv.Put(store.EndedCacheKey(a.Address), data)
}

// Fresh reports whether an entry cached at the given unix second is still
// inside the freshness window.
func (c *EndedAuctionCache) Fresh(cachedAt int64) bool {
	age := c.now().Sub(time.Unix(cachedAt, 0))
	return age < c.freshness
}

// ClearAll removes every cached snapshot. This is a user-triggered escape
// hatch forcing a full refetch, not an automatic eviction path.
func (c *EndedAuctionCache) ClearAll() error {
	keys, err := c.kv.List(store.EndedCachePrefix())
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := c.kv.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
