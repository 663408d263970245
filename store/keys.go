package store

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Key construction for the records this core owns. Key composition by
// (user, auction) is load-bearing: two users' ledgers, or two auctions'
// caches, must never collide.

const (
	bidsPrefix       = "bids:"
	revealedPrefix   = "revealed:"
	withdrawnPrefix  = "withdrawn:"
	endedCachePrefix = "endedAuctionCache:"
)

// BidsKey addresses the append-only bid sequence of one user.
func BidsKey(user common.Address) string {
	return bidsPrefix + hexAddr(user)
}

// RevealedKey addresses the set of revealed slot indices for (user, auction).
func RevealedKey(user, auction common.Address) string {
	return revealedPrefix + hexAddr(user) + ":" + hexAddr(auction)
}

// WithdrawnKey addresses the per-(user, auction) withdraw flag.
func WithdrawnKey(user, auction common.Address) string {
	return withdrawnPrefix + hexAddr(user) + ":" + hexAddr(auction)
}

// EndedCacheKey addresses the terminal snapshot of one auction.
func EndedCacheKey(auction common.Address) string {
	return endedCachePrefix + hexAddr(auction)
}

// EndedCachePrefix is the common prefix of all cache entries, used by the
// cache's clear-all escape hatch.
func EndedCachePrefix() string {
	return endedCachePrefix
}

func hexAddr(a common.Address) string {
	return strings.ToLower(a.Hex())
}
