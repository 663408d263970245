package store

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreRoundTrip(t *testing.T) {
	s := NewMemStore()

	_, err := s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put("a", []byte("one")))
	v, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("one"), v)

	// Mutating the returned slice must not affect stored data.
	v[0] = 'X'
	v2, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("one"), v2)

	require.NoError(t, s.Delete("a"))
	_, err = s.Get("a")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, s.Delete("a"))
}

func TestMemStoreList(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Put("bids:0xaa", []byte("1")))
	require.NoError(t, s.Put("bids:0xbb", []byte("2")))
	require.NoError(t, s.Put("revealed:0xaa:0xcc", []byte("3")))

	keys, err := s.List("bids:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bids:0xaa", "bids:0xbb"}, keys)

	keys, err = s.List("withdrawn:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKeyComposition(t *testing.T) {
	user := common.HexToAddress("0xAAaA000000000000000000000000000000000001")
	other := common.HexToAddress("0xBbbB000000000000000000000000000000000002")
	auctionAddr := common.HexToAddress("0xCccC000000000000000000000000000000000003")

	// Keys are lower-cased so checksummed and plain hex inputs collide on
	// purpose.
	assert.Equal(t, BidsKey(user), BidsKey(common.HexToAddress("0xaaaa000000000000000000000000000000000001")))

	assert.NotEqual(t, BidsKey(user), BidsKey(other))
	assert.NotEqual(t, RevealedKey(user, auctionAddr), RevealedKey(other, auctionAddr))
	assert.NotEqual(t, RevealedKey(user, auctionAddr), WithdrawnKey(user, auctionAddr))
	assert.Contains(t, EndedCacheKey(auctionAddr), EndedCachePrefix())
}
