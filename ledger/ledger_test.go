package ledger

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/store"
)

var (
	userA    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	userB    = common.HexToAddress("0x1000000000000000000000000000000000000002")
	auctionX = common.HexToAddress("0x2000000000000000000000000000000000000001")
	auctionY = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func testBid(auctionAddr common.Address, value int64) auction.Bid {
	return auction.Bid{
		AuctionAddress: auctionAddr,
		Value:          big.NewInt(value),
		Secret:         []byte("s"),
		Deposit:        big.NewInt(value),
		SubmittedAt:    1700000000,
	}
}

func TestRecordAssignsPerAuctionSlots(t *testing.T) {
	l := New(store.NewMemStore())

	s0, err := l.Record(userA, testBid(auctionX, 10))
	require.NoError(t, err)
	s1, err := l.Record(userA, testBid(auctionX, 20))
	require.NoError(t, err)

	// A different auction starts its own slot sequence.
	sy, err := l.Record(userA, testBid(auctionY, 30))
	require.NoError(t, err)

	s2, err := l.Record(userA, testBid(auctionX, 40))
	require.NoError(t, err)

	assert.Equal(t, auction.SlotIndex(0), s0)
	assert.Equal(t, auction.SlotIndex(1), s1)
	assert.Equal(t, auction.SlotIndex(0), sy)
	assert.Equal(t, auction.SlotIndex(2), s2)
}

func TestListForPreservesInsertionOrder(t *testing.T) {
	l := New(store.NewMemStore())

	values := []int64{5, 15, 25}
	for _, v := range values {
		_, err := l.Record(userA, testBid(auctionX, v))
		require.NoError(t, err)
	}

	bids, err := l.ListFor(userA, auctionX)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	for i, b := range bids {
		assert.Equal(t, auction.SlotIndex(i), b.Slot)
		assert.Equal(t, big.NewInt(values[i]), b.Value)
	}
}

func TestLedgersAreIsolatedByUser(t *testing.T) {
	l := New(store.NewMemStore())

	_, err := l.Record(userA, testBid(auctionX, 10))
	require.NoError(t, err)

	bids, err := l.ListFor(userB, auctionX)
	require.NoError(t, err)
	assert.Empty(t, bids)

	ok, err := l.HasParticipated(userA, auctionX)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.HasParticipated(userB, auctionX)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.HasParticipated(userA, auctionY)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkRevealedLeavesOtherSlotsUntouched(t *testing.T) {
	l := New(store.NewMemStore())

	for i := 0; i < 3; i++ {
		_, err := l.Record(userA, testBid(auctionX, int64(i)))
		require.NoError(t, err)
	}

	err := l.MarkRevealed(userA, auctionX, []auction.SlotIndex{0, 2})
	require.NoError(t, err)

	bids, err := l.ListFor(userA, auctionX)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	assert.True(t, bids[0].Revealed)
	assert.False(t, bids[1].Revealed)
	assert.True(t, bids[2].Revealed)

	// Marking is idempotent and cumulative.
	err = l.MarkRevealed(userA, auctionX, []auction.SlotIndex{1})
	require.NoError(t, err)

	bids, err = l.ListFor(userA, auctionX)
	require.NoError(t, err)
	assert.True(t, bids[1].Revealed)
	assert.True(t, bids[0].Revealed)
}

func TestRevealMarkersScopedToAuction(t *testing.T) {
	l := New(store.NewMemStore())

	_, err := l.Record(userA, testBid(auctionX, 1))
	require.NoError(t, err)
	_, err = l.Record(userA, testBid(auctionY, 2))
	require.NoError(t, err)

	require.NoError(t, l.MarkRevealed(userA, auctionX, []auction.SlotIndex{0}))

	bids, err := l.ListFor(userA, auctionY)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.False(t, bids[0].Revealed)
}

func TestWithdrawnFlag(t *testing.T) {
	l := New(store.NewMemStore())

	ok, err := l.HasWithdrawn(userA, auctionX)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.MarkWithdrawn(userA, auctionX))

	ok, err = l.HasWithdrawn(userA, auctionX)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.HasWithdrawn(userA, auctionY)
	require.NoError(t, err)
	assert.False(t, ok)
}
