// Package ledger persists the acting user's own blinded bids and their
// reveal state across sessions.
//
// Bid records are append-only. The slot ordinal assigned at record time must
// match the ordinal the contract assigned at commit time — the reveal call
// selects commitments by this ordinal, so a reordered or pruned ledger would
// reveal against the wrong commitment. To keep the append-only invariant
// strict, the revealed and withdrawn markers live under separate keys and
// are overlaid onto the records on read.
package ledger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/store"
)

// BidLedger stores bid records keyed by user address.
type BidLedger struct {
	kv store.KV
}

// New creates a ledger on top of the given key-value store.
func New(kv store.KV) *BidLedger {
	return &BidLedger{kv: kv}
}

// Record appends a bid to the user's ledger and assigns it the next slot
// ordinal for its auction. It returns the assigned slot.
func (l *BidLedger) Record(user common.Address, bid auction.Bid) (auction.SlotIndex, error) {
	bids, err := l.loadBids(user)
	if err != nil {
		return 0, err
	}

	slot := auction.SlotIndex(0)
	for _, b := range bids {
		if b.AuctionAddress == bid.AuctionAddress {
			slot++
		}
	}
	bid.Slot = slot

	bids = append(bids, bid)
	if err := l.saveBids(user, bids); err != nil {
		return 0, err
	}
	return slot, nil
}

// ListFor returns the user's bids for one auction in slot order, with the
// revealed markers overlaid.
func (l *BidLedger) ListFor(user, auctionAddr common.Address) ([]auction.Bid, error) {
	bids, err := l.loadBids(user)
	if err != nil {
		return nil, err
	}

	revealed, err := l.loadRevealed(user, auctionAddr)
	if err != nil {
		return nil, err
	}

	var out []auction.Bid
	for _, b := range bids {
		if b.AuctionAddress != auctionAddr {
			continue
		}
		if revealed[b.Slot] {
			b.Revealed = true
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

// HasParticipated reports whether the user has at least one recorded bid for
// the auction.
func (l *BidLedger) HasParticipated(user, auctionAddr common.Address) (bool, error) {
	bids, err := l.loadBids(user)
	if err != nil {
		return false, err
	}
	for _, b := range bids {
		if b.AuctionAddress == auctionAddr {
			return true, nil
		}
	}
	return false, nil
}

// MarkRevealed records the given slots as revealed. Callers must only invoke
// this after the reveal transaction is confirmed on chain.
func (l *BidLedger) MarkRevealed(user, auctionAddr common.Address, slots []auction.SlotIndex) error {
	revealed, err := l.loadRevealed(user, auctionAddr)
	if err != nil {
		return err
	}
	for _, s := range slots {
		revealed[s] = true
	}

	var list []auction.SlotIndex
	for s := range revealed {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })

	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return l.kv.Put(store.RevealedKey(user, auctionAddr), data)
}

// MarkWithdrawn flags the auction as withdrawn for this user. Callers must
// only invoke this after the withdraw transaction is confirmed.
func (l *BidLedger) MarkWithdrawn(user, auctionAddr common.Address) error {
	return l.kv.Put(store.WithdrawnKey(user, auctionAddr), []byte("1"))
}

// HasWithdrawn reports whether the user already withdrew their overbid funds
// for the auction.
func (l *BidLedger) HasWithdrawn(user, auctionAddr common.Address) (bool, error) {
	_, err := l.kv.Get(store.WithdrawnKey(user, auctionAddr))
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *BidLedger) loadBids(user common.Address) ([]auction.Bid, error) {
	data, err := l.kv.Get(store.BidsKey(user))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var bids []auction.Bid
	if err := json.Unmarshal(data, &bids); err != nil {
		return nil, fmt.Errorf("decoding bid records: %w", err)
	}
	return bids, nil
}

func (l *BidLedger) saveBids(user common.Address, bids []auction.Bid) error {
	data, err := json.Marshal(bids)
	if err != nil {
		return err
	}
	return l.kv.Put(store.BidsKey(user), data)
}

func (l *BidLedger) loadRevealed(user, auctionAddr common.Address) (map[auction.SlotIndex]bool, error) {
	revealed := make(map[auction.SlotIndex]bool)

	data, err := l.kv.Get(store.RevealedKey(user, auctionAddr))
	if err == store.ErrNotFound {
		return revealed, nil
	}
	if err != nil {
		return nil, err
	}

	var list []auction.SlotIndex
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding revealed slots: %w", err)
	}
	for _, s := range list {
		revealed[s] = true
	}
	return revealed, nil
}
