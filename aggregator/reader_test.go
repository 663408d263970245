package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/chain"
)

var readerAddr = common.HexToAddress("0x4000000000000000000000000000000000000001")

func newRecordingReader(fetcher chain.AuctionFetcher, maxAttempts int) (*Reader, *[]time.Duration) {
	r := NewReader(fetcher, ReaderConfig{MaxAttempts: maxAttempts, BackoffUnit: time.Millisecond}, nil)
	waits := &[]time.Duration{}
	r.sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return r, waits
}

func TestFetchRetriesWithExponentialBackoff(t *testing.T) {
	fetcher := chain.NewMockFetcher()
	fetcher.SetAuction(&auction.Auction{Address: readerAddr, BiddingStart: 1, BiddingEnd: 2, RevealEnd: 3})
	fetcher.FailTimes(readerAddr, 3)

	r, waits := newRecordingReader(fetcher, 5)

	a, err := r.Fetch(context.Background(), readerAddr)
	require.NoError(t, err)
	assert.Equal(t, readerAddr, a.Address)
	assert.Equal(t, 4, fetcher.Calls(readerAddr))

	// Waits after failed attempts 1..3: 2^1, 2^2, 2^3 units.
	unit := time.Millisecond
	assert.Equal(t, []time.Duration{2 * unit, 4 * unit, 8 * unit}, *waits)
}

func TestFetchGivesUpAtAttemptCap(t *testing.T) {
	fetcher := chain.NewMockFetcher()
	fetcher.SetAuction(&auction.Auction{Address: readerAddr})
	fetcher.FailTimes(readerAddr, 100)

	r, waits := newRecordingReader(fetcher, 5)

	_, err := r.Fetch(context.Background(), readerAddr)
	require.Error(t, err)
	assert.Equal(t, 5, fetcher.Calls(readerAddr))

	// No wait after the final attempt.
	unit := time.Millisecond
	assert.Equal(t, []time.Duration{2 * unit, 4 * unit, 8 * unit, 16 * unit}, *waits)
}

func TestFetchFirstAttemptRunsImmediately(t *testing.T) {
	fetcher := chain.NewMockFetcher()
	fetcher.SetAuction(&auction.Auction{Address: readerAddr})

	r, waits := newRecordingReader(fetcher, 5)

	_, err := r.Fetch(context.Background(), readerAddr)
	require.NoError(t, err)
	assert.Empty(t, *waits)
	assert.Equal(t, 1, fetcher.Calls(readerAddr))
}

func TestFetchAbortsBackoffOnCancellation(t *testing.T) {
	fetcher := chain.NewMockFetcher()
	fetcher.FailTimes(readerAddr, 100)

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReader(fetcher, ReaderConfig{MaxAttempts: 5, BackoffUnit: time.Millisecond}, nil)
	r.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := r.Fetch(ctx, readerAddr)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fetcher.Calls(readerAddr))
}
