package chain

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
)

// MockFetcher simulates the single-auction read adapter with scriptable
// transient failures. It is used by aggregator and service tests.
type MockFetcher struct {
	mu       sync.Mutex
	auctions map[common.Address]*auction.Auction
	failures map[common.Address]int
	calls    map[common.Address]int
}

// NewMockFetcher creates an empty mock fetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		auctions: make(map[common.Address]*auction.Auction),
		failures: make(map[common.Address]int),
		calls:    make(map[common.Address]int),
	}
}

// SetAuction registers the auction state the fetcher serves.
func (m *MockFetcher) SetAuction(a *auction.Auction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auctions[a.Address] = a
}

// FailTimes makes the next n fetches of addr fail with a rate-limit error.
func (m *MockFetcher) FailTimes(addr common.Address, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[addr] = n
}

// Calls returns how many times addr has been fetched.
func (m *MockFetcher) Calls(addr common.Address) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[addr]
}

// TotalCalls returns the fetch count across all addresses.
func (m *MockFetcher) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *MockFetcher) FetchAuction(_ context.Context, addr common.Address) (*auction.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[addr]++
	if m.failures[addr] > 0 {
		m.failures[addr]--
		return nil, errors.New("429 too many requests")
	}

	a, ok := m.auctions[addr]
	if !ok {
		return nil, errors.New("server error: unknown contract")
	}
	snapshot := *a
	return &snapshot, nil
}

// SubmittedBid records one bid call made against the mock signer.
type SubmittedBid struct {
	Auction    common.Address
	BlindedBid [32]byte
	Deposit    *big.Int
	TxHash     common.Hash
}

// SubmittedReveal records one reveal call made against the mock signer.
type SubmittedReveal struct {
	Auction common.Address
	Values  []*big.Int
	Fakes   []bool
	Secrets [][32]byte
	TxHash  common.Hash
}

// MockSigner records submitted transactions and confirms them with a
// scriptable outcome.
type MockSigner struct {
	mu sync.Mutex

	// SubmitErr, when set, fails every submission before a hash is issued.
	SubmitErr error
	// ConfirmErr, when set, is returned by WaitConfirmed (e.g.
	// ErrWriteReverted or ErrWriteTimedOut).
	ConfirmErr error

	Bids      []SubmittedBid
	Reveals   []SubmittedReveal
	Ends      []common.Address
	Withdraws []common.Address

	nextHash int64
}

// NewMockSigner creates a signer that confirms everything successfully.
func NewMockSigner() *MockSigner {
	return &MockSigner{}
}

func (m *MockSigner) hash() common.Hash {
	m.nextHash++
	return common.BigToHash(big.NewInt(m.nextHash))
}

func (m *MockSigner) Bid(_ context.Context, auctionAddr common.Address, blindedBid [32]byte, deposit *big.Int) (common.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitErr != nil {
		return common.Hash{}, m.SubmitErr
	}
	h := m.hash()
	m.Bids = append(m.Bids, SubmittedBid{Auction: auctionAddr, BlindedBid: blindedBid, Deposit: deposit, TxHash: h})
	return h, nil
}

func (m *MockSigner) Reveal(_ context.Context, auctionAddr common.Address, values []*big.Int, fakes []bool, secrets [][32]byte) (common.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitErr != nil {
		return common.Hash{}, m.SubmitErr
	}
	h := m.hash()
	m.Reveals = append(m.Reveals, SubmittedReveal{Auction: auctionAddr, Values: values, Fakes: fakes, Secrets: secrets, TxHash: h})
	return h, nil
}

func (m *MockSigner) AuctionEnd(_ context.Context, auctionAddr common.Address) (common.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitErr != nil {
		return common.Hash{}, m.SubmitErr
	}
	m.Ends = append(m.Ends, auctionAddr)
	return m.hash(), nil
}

func (m *MockSigner) Withdraw(_ context.Context, auctionAddr common.Address) (common.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitErr != nil {
		return common.Hash{}, m.SubmitErr
	}
	m.Withdraws = append(m.Withdraws, auctionAddr)
	return m.hash(), nil
}

func (m *MockSigner) WaitConfirmed(_ context.Context, _ common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ConfirmErr
}
