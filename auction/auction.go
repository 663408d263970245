// Package auction defines the domain model for blind auctions: the on-chain
// auction snapshot, the derived phase, and the user-local bid record.
package auction

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Phase is the auction's current stage. It is always derived from the
// snapshot timestamps and the contract's ended flag against wall-clock time,
// never stored: stored timestamps stay valid while a stored phase goes stale.
type Phase int

const (
	PhasePending Phase = iota
	PhaseBidding
	PhaseRevealing
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseBidding:
		return "bidding"
	case PhaseRevealing:
		return "revealing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Metadata describes the auctioned NFT. It is sourced from the creation
// event log and treated as an opaque attachment.
type Metadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageRef    string   `json:"image_ref"`
	MinPrice    *big.Int `json:"min_price,omitempty"`
}

// Auction is a point-in-time snapshot of one on-chain auction instance.
// Timestamps are unix seconds with biddingStart <= biddingEnd <= revealEnd.
// EndedFlag may lag behind the time-derived phase until someone submits the
// settlement transaction.
type Auction struct {
	Address       common.Address `json:"address"`
	Beneficiary   common.Address `json:"beneficiary"`
	BiddingStart  int64          `json:"bidding_start"`
	BiddingEnd    int64          `json:"bidding_end"`
	RevealEnd     int64          `json:"reveal_end"`
	EndedFlag     bool           `json:"ended"`
	Metadata      *Metadata      `json:"metadata,omitempty"`
	HighestBid    *big.Int       `json:"highest_bid,omitempty"`
	HighestBidder common.Address `json:"highest_bidder,omitempty"`
}

// PhaseAt derives the auction's phase at the given instant.
func (a *Auction) PhaseAt(now time.Time) Phase {
	return DerivePhase(now.Unix(), a.BiddingStart, a.BiddingEnd, a.RevealEnd, a.EndedFlag)
}

// DerivePhase computes the phase from unix-second timestamps and the
// contract-reported ended flag. First match wins:
//
//  1. The ended flag is authoritative regardless of time.
//  2. Elapsed reveal time is terminal even before the settlement transaction
//     lands, so the flag lagging behind does not hide a finished auction.
//  3. now >= biddingEnd means revealing (the end boundary itself is already
//     in the reveal phase).
//  4. now < biddingStart means pending; the start boundary itself is bidding.
func DerivePhase(now, biddingStart, biddingEnd, revealEnd int64, endedFlag bool) Phase {
	switch {
	case endedFlag:
		return PhaseEnded
	case now >= revealEnd:
		return PhaseEnded
	case now >= biddingEnd:
		return PhaseRevealing
	case now < biddingStart:
		return PhasePending
	default:
		return PhaseBidding
	}
}
