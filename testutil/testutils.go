// Package testutil provides shared fixtures for auction tests: addresses
// and auction snapshots pinned to a chosen phase.
package testutil

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
)

// RandomAddress returns a random contract address.
func RandomAddress() common.Address {
	var addr common.Address
	rand.Read(addr[:])
	return addr
}

// NewBiddingAuction returns an auction whose bidding window contains now.
func NewBiddingAuction(addr common.Address, now time.Time) *auction.Auction {
	ts := now.Unix()
	return &auction.Auction{
		Address:      addr,
		Beneficiary:  common.HexToAddress("0xbe"),
		BiddingStart: ts - 600,
		BiddingEnd:   ts + 600,
		RevealEnd:    ts + 1200,
	}
}

// NewRevealingAuction returns an auction inside its reveal window.
func NewRevealingAuction(addr common.Address, now time.Time) *auction.Auction {
	ts := now.Unix()
	return &auction.Auction{
		Address:      addr,
		Beneficiary:  common.HexToAddress("0xbe"),
		BiddingStart: ts - 1200,
		BiddingEnd:   ts - 600,
		RevealEnd:    ts + 600,
	}
}

// NewEndedAuction returns a settled auction: reveal window passed and the
// contract's ended flag set.
func NewEndedAuction(addr common.Address, now time.Time) *auction.Auction {
	ts := now.Unix()
	return &auction.Auction{
		Address:      addr,
		Beneficiary:  common.HexToAddress("0xbe"),
		BiddingStart: ts - 1800,
		BiddingEnd:   ts - 1200,
		RevealEnd:    ts - 600,
		EndedFlag:    true,
		HighestBid:   big.NewInt(1e18),
	}
}
