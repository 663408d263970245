package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxSigner submits auction transactions and waits for their receipts. The
// core only assembles arguments; implementations own the key material.
type TxSigner interface {
	// Bid submits a blinded bid with the given deposit attached.
	Bid(ctx context.Context, auction common.Address, blindedBid [32]byte, deposit *big.Int) (common.Hash, error)

	// Reveal discloses the original bid parameters for validation against
	// the stored commitments. The three arrays are parallel and ordered by
	// commit slot.
	Reveal(ctx context.Context, auction common.Address, values []*big.Int, fakes []bool, secrets [][32]byte) (common.Hash, error)

	// AuctionEnd submits the settlement transaction.
	AuctionEnd(ctx context.Context, auction common.Address) (common.Hash, error)

	// Withdraw reclaims overbid funds.
	Withdraw(ctx context.Context, auction common.Address) (common.Hash, error)

	// WaitConfirmed blocks until the transaction is confirmed. It returns
	// nil for a successful receipt, ErrWriteReverted for a failed one, and
	// ErrWriteTimedOut when no receipt shows up within the bound.
	WaitConfirmed(ctx context.Context, tx common.Hash) error
}

// TxClient is the RPC surface the keyed signer needs. *ethclient.Client
// satisfies it.
type TxClient interface {
	Reader
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// DefaultConfirmTimeout bounds how long WaitConfirmed polls for a receipt
// before reporting the transaction as indeterminate.
const DefaultConfirmTimeout = 120 * time.Second

// KeyedSigner implements TxSigner with a local ECDSA key.
type KeyedSigner struct {
	client         TxClient
	key            *ecdsa.PrivateKey
	from           common.Address
	chainID        *big.Int
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// NewKeyedSigner creates a signer from a hex-encoded private key.
func NewKeyedSigner(client TxClient, privateKeyHex string, chainID *big.Int) (*KeyedSigner, error) {
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("loading private key: %w", err)
	}
	return &KeyedSigner{
		client:         client,
		key:            key,
		from:           crypto.PubkeyToAddress(key.PublicKey),
		chainID:        chainID,
		confirmTimeout: DefaultConfirmTimeout,
		pollInterval:   2 * time.Second,
	}, nil
}

// From returns the signing account's address.
func (s *KeyedSigner) From() common.Address {
	return s.from
}

func (s *KeyedSigner) Bid(ctx context.Context, auction common.Address, blindedBid [32]byte, deposit *big.Int) (common.Hash, error) {
	data, err := auctionABI.Pack("bid", blindedBid)
	if err != nil {
		return common.Hash{}, fmt.Errorf("packing bid: %w", err)
	}
	return s.submit(ctx, auction, deposit, data)
}

func (s *KeyedSigner) Reveal(ctx context.Context, auction common.Address, values []*big.Int, fakes []bool, secrets [][32]byte) (common.Hash, error) {
	data, err := auctionABI.Pack("reveal", values, fakes, secrets)
	if err != nil {
		return common.Hash{}, fmt.Errorf("packing reveal: %w", err)
	}
	return s.submit(ctx, auction, nil, data)
}

func (s *KeyedSigner) AuctionEnd(ctx context.Context, auction common.Address) (common.Hash, error) {
	data, err := auctionABI.Pack("auctionEnd")
	if err != nil {
		return common.Hash{}, fmt.Errorf("packing auctionEnd: %w", err)
	}
	return s.submit(ctx, auction, nil, data)
}

func (s *KeyedSigner) Withdraw(ctx context.Context, auction common.Address) (common.Hash, error) {
	data, err := auctionABI.Pack("withdraw")
	if err != nil {
		return common.Hash{}, fmt.Errorf("packing withdraw: %w", err)
	}
	return s.submit(ctx, auction, nil, data)
}

func (s *KeyedSigner) submit(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	nonce, err := s.client.PendingNonceAt(ctx, s.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetching nonce: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetching gas price: %w", err)
	}

	gasLimit, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimating gas: %w", err)
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("signing transaction: %w", err)
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("sending transaction: %w", err)
	}
	return signed.Hash(), nil
}

func (s *KeyedSigner) WaitConfirmed(ctx context.Context, tx common.Hash) error {
	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		rcpt, err := s.client.TransactionReceipt(ctx, tx)
		if err == nil && rcpt != nil {
			if rcpt.Status == types.ReceiptStatusSuccessful {
				return nil
			}
			return fmt.Errorf("%w: tx %s", ErrWriteReverted, tx)
		}
		// ethereum.NotFound and transient lookup errors alike: keep
		// polling until the deadline.
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: tx %s", ErrWriteTimedOut, tx)
		case <-ticker.C:
		}
	}
}
