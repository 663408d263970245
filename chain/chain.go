// Package chain adapts the on-chain auction contract for the rest of the
// core: a typed read adapter over the JSON-RPC interface and a transaction
// signer for the commit-reveal write path. The contract itself is the source
// of truth for all auction state; nothing here assumes success before an
// on-chain confirmation.
package chain

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
)

var (
	// ErrWriteReverted indicates an on-chain transaction executed and
	// failed. Local state must not be mutated.
	ErrWriteReverted = errors.New("chain: transaction reverted")

	// ErrWriteTimedOut indicates no receipt was observed within the
	// confirmation bound. The transaction is indeterminate, not failed;
	// local state must not be mutated and the user should check an
	// explorer.
	ErrWriteTimedOut = errors.New("chain: confirmation not observed within timeout")
)

// AuctionFetcher is the single-auction read adapter consumed by the batch
// aggregator.
type AuctionFetcher interface {
	FetchAuction(ctx context.Context, addr common.Address) (*auction.Auction, error)
}

// IsRateLimited reports whether an RPC error looks like a rate-limit
// response. Classification is diagnostic only: the retry policy treats
// rate-limit and generic transient failures identically.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "server error")
}
