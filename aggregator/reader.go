package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/chain"
)

// ReaderConfig controls the per-address retry loop.
type ReaderConfig struct {
	// MaxAttempts caps fetch attempts per address. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int

	// BackoffUnit scales the exponential backoff: the wait after failed
	// attempt n is 2^n * BackoffUnit. Zero means one second. Tests inject
	// a small unit.
	BackoffUnit time.Duration
}

// DefaultMaxAttempts is the retry cap for a single address.
const DefaultMaxAttempts = 5

func (c ReaderConfig) withDefaults() ReaderConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BackoffUnit <= 0 {
		c.BackoffUnit = time.Second
	}
	return c
}

// Reader fetches a single auction's state with bounded retries and
// attempt-indexed exponential backoff. Rate-limit and generic transient
// errors share the same policy; classification is logged for diagnostics
// only.
type Reader struct {
	fetcher chain.AuctionFetcher
	cfg     ReaderConfig
	log     *slog.Logger
	sleep   func(context.Context, time.Duration) error
}

// NewReader wraps a fetcher with the retry policy.
func NewReader(fetcher chain.AuctionFetcher, cfg ReaderConfig, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.Default()
	}
	return &Reader{
		fetcher: fetcher,
		cfg:     cfg.withDefaults(),
		log:     log,
		sleep:   sleepCtx,
	}
}

// Fetch returns the auction state for addr, or an error once the retry cap
// is exhausted. A cancelled context aborts the wait between attempts; an
// in-flight fetch is allowed to complete.
func (r *Reader) Fetch(ctx context.Context, addr common.Address) (*auction.Auction, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		fetchAttempts.Inc()
		a, err := r.fetcher.FetchAuction(ctx, addr)
		if err == nil {
			return a, nil
		}
		lastErr = err

		r.log.Warn("auction fetch failed",
			"auction", addr,
			"attempt", attempt,
			"rate_limited", chain.IsRateLimited(err),
			"err", err)

		if attempt == r.cfg.MaxAttempts {
			break
		}
		wait := (1 << attempt) * r.cfg.BackoffUnit
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fetching auction %s after %d attempts: %w", addr, r.cfg.MaxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
