// Package aggregator pulls per-auction state for many auction instances from
// an unreliable, rate-limited RPC endpoint.
//
// Addresses are processed in sequential batches with a pause between them;
// only fetches within one batch run concurrently, which bounds in-flight
// calls to the batch size. Sustained failures make the schedule degrade:
// waits double past a soft error threshold, and past a hard threshold the
// batch size shrinks while the delay grows for the rest of the run. Auctions
// already known to be terminal are served from the ended-auction cache
// without touching the network.
package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/atomic"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/cache"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/chain"
)

// Result is the outcome of one FetchAll run. Auctions holds cache hits and
// fetched states in no guaranteed order; Failed counts addresses that
// exhausted their retries so callers can report partial-result degradation.
// Unfetched counts addresses never attempted because the run was cancelled;
// it is zero on a completed run.
type Result struct {
	Auctions  []*auction.Auction
	Failed    int
	Unfetched int
}

// BatchAggregator orchestrates per-address fetches with adaptive batching
// and cache short-circuiting. Fetch failures are absorbed and counted, never
// fatal; the only error FetchAll returns is the caller's own cancellation.
type BatchAggregator struct {
	reader *Reader
	cache  *cache.EndedAuctionCache
	log    *slog.Logger
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

// New creates an aggregator. The cache may be nil, which disables
// short-circuiting and terminal-snapshot writes.
func New(fetcher chain.AuctionFetcher, c *cache.EndedAuctionCache, cfg ReaderConfig, log *slog.Logger) *BatchAggregator {
	if log == nil {
		log = slog.Default()
	}
	return &BatchAggregator{
		reader: NewReader(fetcher, cfg, log),
		cache:  c,
		log:    log,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// FetchAll resolves the state of every given auction address. Cached
// terminal snapshots are returned without a fetch; the rest are fetched in
// adaptive batches. Terminal results are written back to the cache on a
// best-effort basis.
//
// The returned error is non-nil only when ctx is cancelled; the partial
// Result accumulated so far is still returned alongside it.
func (b *BatchAggregator) FetchAll(ctx context.Context, addrs []common.Address) (*Result, error) {
	res := &Result{}

	pending := make([]common.Address, 0, len(addrs))
	for _, addr := range addrs {
		if b.cache != nil {
			entry, ok, err := b.cache.Get(addr)
			if err != nil {
				b.log.Warn("cache read failed", "auction", addr, "err", err)
			} else if ok {
				cacheHits.Inc()
				snapshot := entry.Auction
				res.Auctions = append(res.Auctions, &snapshot)
				continue
			}
		}
		pending = append(pending, addr)
	}

	if len(pending) == 0 {
		return res, nil
	}

	plan := InitialPlan(len(pending))
	errCount := atomic.NewInt64(0)
	b.log.Debug("starting batch fetch",
		"total", len(addrs), "cached", len(res.Auctions), "pending", len(pending),
		"batch_size", plan.Size, "batch_delay", plan.Delay)

	first := true
	for len(pending) > 0 {
		if !first {
			delay := plan.Delay
			if errCount.Load() > softErrorThreshold {
				delay *= 2
				b.log.Debug("doubling inter-batch delay", "errors", errCount.Load(), "delay", delay)
			}
			if err := b.sleep(ctx, delay); err != nil {
				res.Unfetched = len(pending)
				return res, err
			}
		}
		first = false
		if err := ctx.Err(); err != nil {
			res.Unfetched = len(pending)
			return res, err
		}

		n := plan.Size
		if n > len(pending) {
			n = len(pending)
		}
		batch := pending[:n]
		pending = pending[n:]

		fetched := make([]*auction.Auction, n)
		var wg sync.WaitGroup
		for i, addr := range batch {
			wg.Add(1)
			go func(i int, addr common.Address) {
				defer wg.Done()
				a, err := b.reader.Fetch(ctx, addr)
				if err != nil {
					errCount.Inc()
					return
				}
				fetched[i] = a
			}(i, addr)
		}
		wg.Wait()

		for _, a := range fetched {
			if a == nil {
				res.Failed++
				fetchFailures.Inc()
				continue
			}
			res.Auctions = append(res.Auctions, a)
			if b.cache != nil && a.PhaseAt(b.now()) == auction.PhaseEnded {
				// Best effort: a cache-write failure never fails
				// the fetch.
				if err := b.cache.Put(a); err != nil {
					b.log.Debug("cache write skipped", "auction", a.Address, "err", err)
				}
			}
		}

		next := NextPlan(plan, int(errCount.Load()))
		if next.Size != plan.Size {
			b.log.Info("degrading batch plan",
				"errors", errCount.Load(), "batch_size", next.Size, "batch_delay", next.Delay)
		}
		plan = next
	}

	return res, nil
}
