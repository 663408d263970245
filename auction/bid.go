package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SlotIndex is a bid's ordinal position within (user, auction), as assigned
// by the contract at commit time. The ledger records it explicitly instead of
// relying on array position so that filtering or migrating records can never
// silently shift which on-chain commitment a reveal refers to.
type SlotIndex int

// Bid is a user-local record of one submitted blinded bid. The plaintext
// value and the secret exist only here; the chain stores just the
// commitment, which is the whole point of blinding. Records are append-only;
// the only mutation is the revealed marker, and that is tracked separately
// by the ledger.
type Bid struct {
	AuctionAddress common.Address `json:"auction_address"`
	Slot           SlotIndex      `json:"slot"`
	Value          *big.Int       `json:"value"`
	Fake           bool           `json:"fake"`
	Secret         []byte         `json:"secret"`
	Commitment     common.Hash    `json:"commitment"`
	Deposit        *big.Int       `json:"deposit"`
	SubmittedAt    int64          `json:"submitted_at"`
	Revealed       bool           `json:"revealed"`
	TxHash         common.Hash    `json:"tx_hash"`
}
