// Package client drives the acting user's commit-reveal workflow against the
// auction contract: placing blinded bids, revealing them, settling the
// auction and withdrawing overbid funds.
//
// The single most important rule here is that the local ledger is only
// mutated after an on-chain confirmation. Marking a bid revealed before the
// reveal transaction confirms would permanently hide a still-unrevealed,
// still-slashable bid from the user; recording a bid whose commit never
// landed would desynchronize the ledger's slot ordinals from the contract's.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/chain"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/commitment"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/ledger"
)

var (
	// ErrMismatchedAuction is returned when a reveal selects a slot that
	// does not belong to the requested auction.
	ErrMismatchedAuction = errors.New("client: bid does not belong to this auction")

	// ErrAlreadyRevealed is returned when a reveal selects a slot that was
	// already revealed on chain.
	ErrAlreadyRevealed = errors.New("client: bid already revealed")
)

// Client executes the user write workflow for one acting account.
type Client struct {
	user   common.Address
	signer chain.TxSigner
	ledger *ledger.BidLedger
	log    *slog.Logger
	now    func() time.Time
}

// New creates a client for the given account.
func New(user common.Address, signer chain.TxSigner, lg *ledger.BidLedger, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		user:   user,
		signer: signer,
		ledger: lg,
		log:    log,
		now:    time.Now,
	}
}

// User returns the acting account's address.
func (c *Client) User() common.Address {
	return c.user
}

// BidParams are the user-chosen parameters of one blinded bid. A fake bid
// carries a deposit that does not match its value and serves as a decoy.
type BidParams struct {
	Value   *big.Int
	Fake    bool
	Secret  []byte
	Deposit *big.Int
}

// PlaceBid computes the blinded commitment, submits it with the deposit
// attached, and records the bid in the ledger once the transaction is
// confirmed. The returned record carries the slot ordinal the contract
// assigned.
func (c *Client) PlaceBid(ctx context.Context, auctionAddr common.Address, p BidParams) (*auction.Bid, error) {
	com, err := commitment.Commit(p.Value, p.Fake, p.Secret)
	if err != nil {
		return nil, err
	}

	txHash, err := c.signer.Bid(ctx, auctionAddr, com, p.Deposit)
	if err != nil {
		return nil, fmt.Errorf("submitting bid: %w", err)
	}
	if err := c.signer.WaitConfirmed(ctx, txHash); err != nil {
		return nil, err
	}

	bid := auction.Bid{
		AuctionAddress: auctionAddr,
		Value:          p.Value,
		Fake:           p.Fake,
		Secret:         p.Secret,
		Commitment:     common.Hash(com),
		Deposit:        p.Deposit,
		SubmittedAt:    c.now().Unix(),
		TxHash:         txHash,
	}
	slot, err := c.ledger.Record(c.user, bid)
	if err != nil {
		// The bid is on chain but not in the ledger; surface loudly so
		// the user can reconcile before revealing.
		return nil, fmt.Errorf("bid confirmed in tx %s but recording failed: %w", txHash, err)
	}
	bid.Slot = slot

	c.log.Info("bid placed", "auction", auctionAddr, "slot", slot, "tx", txHash)
	return &bid, nil
}

// RevealPayload is the parallel-array argument set of the contract's reveal
// call. Array order matches the commit order at the selected slots.
type RevealPayload struct {
	Slots   []auction.SlotIndex
	Values  []*big.Int
	Fakes   []bool
	Secrets [][32]byte
}

// PrepareReveal validates the selected slots and assembles the reveal
// arguments. It touches neither the chain nor the ledger.
func (c *Client) PrepareReveal(auctionAddr common.Address, slots []auction.SlotIndex) (*RevealPayload, error) {
	bids, err := c.ledger.ListFor(c.user, auctionAddr)
	if err != nil {
		return nil, err
	}

	byCSlot := make(map[auction.SlotIndex]auction.Bid, len(bids))
	for _, b := range bids {
		byCSlot[b.Slot] = b
	}

	payload := &RevealPayload{}
	for _, s := range slots {
		b, ok := byCSlot[s]
		if !ok {
			return nil, fmt.Errorf("%w: no slot %d for auction %s", ErrMismatchedAuction, s, auctionAddr)
		}
		if b.AuctionAddress != auctionAddr {
			return nil, fmt.Errorf("%w: slot %d", ErrMismatchedAuction, s)
		}
		if b.Revealed {
			return nil, fmt.Errorf("%w: slot %d", ErrAlreadyRevealed, s)
		}

		payload.Slots = append(payload.Slots, s)
		payload.Values = append(payload.Values, b.Value)
		payload.Fakes = append(payload.Fakes, b.Fake)
		payload.Secrets = append(payload.Secrets, commitment.SecretDigest(b.Secret))
	}
	return payload, nil
}

// Reveal discloses the selected bids to the contract and marks them revealed
// in the ledger once the transaction is confirmed.
func (c *Client) Reveal(ctx context.Context, auctionAddr common.Address, slots []auction.SlotIndex) (*RevealPayload, error) {
	payload, err := c.PrepareReveal(auctionAddr, slots)
	if err != nil {
		return nil, err
	}

	txHash, err := c.signer.Reveal(ctx, auctionAddr, payload.Values, payload.Fakes, payload.Secrets)
	if err != nil {
		return nil, fmt.Errorf("submitting reveal: %w", err)
	}
	if err := c.signer.WaitConfirmed(ctx, txHash); err != nil {
		return nil, err
	}

	if err := c.ledger.MarkRevealed(c.user, auctionAddr, payload.Slots); err != nil {
		return nil, fmt.Errorf("reveal confirmed in tx %s but marking failed: %w", txHash, err)
	}

	c.log.Info("bids revealed", "auction", auctionAddr, "slots", len(payload.Slots), "tx", txHash)
	return payload, nil
}

// EndAuction submits the settlement transaction and waits for confirmation.
func (c *Client) EndAuction(ctx context.Context, auctionAddr common.Address) (common.Hash, error) {
	txHash, err := c.signer.AuctionEnd(ctx, auctionAddr)
	if err != nil {
		return common.Hash{}, fmt.Errorf("submitting auctionEnd: %w", err)
	}
	if err := c.signer.WaitConfirmed(ctx, txHash); err != nil {
		return common.Hash{}, err
	}
	c.log.Info("auction settled", "auction", auctionAddr, "tx", txHash)
	return txHash, nil
}

// Withdraw reclaims overbid funds and flags the auction as withdrawn for
// this user once the transaction is confirmed.
func (c *Client) Withdraw(ctx context.Context, auctionAddr common.Address) (common.Hash, error) {
	txHash, err := c.signer.Withdraw(ctx, auctionAddr)
	if err != nil {
		return common.Hash{}, fmt.Errorf("submitting withdraw: %w", err)
	}
	if err := c.signer.WaitConfirmed(ctx, txHash); err != nil {
		return common.Hash{}, err
	}

	if err := c.ledger.MarkWithdrawn(c.user, auctionAddr); err != nil {
		return common.Hash{}, fmt.Errorf("withdraw confirmed in tx %s but marking failed: %w", txHash, err)
	}
	c.log.Info("funds withdrawn", "auction", auctionAddr, "tx", txHash)
	return txHash, nil
}
