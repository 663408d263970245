package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
)

// Reader is the read-only subset of an Ethereum RPC client the contract
// reader needs. *ethclient.Client satisfies it.
type Reader interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// FactoryConfig locates the factory contract whose AuctionCreated events
// carry the NFT metadata, and the block to start scanning from.
type FactoryConfig struct {
	Address   common.Address
	FromBlock uint64
}

// ContractReader decodes the auction contract's view functions and creation
// event. Every call can fail transiently; retry policy is the caller's
// concern (see the aggregator package).
type ContractReader struct {
	client  Reader
	factory *FactoryConfig

	// Creation metadata is immutable, so it is looked up once per auction
	// and memoized.
	mu       sync.Mutex
	metadata map[common.Address]*auction.Metadata
}

// NewContractReader creates a reader over the given RPC client. Snapshots
// carry no metadata; use NewContractReaderWithFactory to resolve it.
func NewContractReader(client Reader) *ContractReader {
	return &ContractReader{client: client}
}

// NewContractReaderWithFactory creates a reader that also resolves each
// auction's NFT metadata from the factory's creation event.
func NewContractReaderWithFactory(client Reader, factory FactoryConfig) *ContractReader {
	return &ContractReader{
		client:   client,
		factory:  &factory,
		metadata: make(map[common.Address]*auction.Metadata),
	}
}

// FetchAuction reads the full current state of one auction instance.
func (r *ContractReader) FetchAuction(ctx context.Context, addr common.Address) (*auction.Auction, error) {
	a := &auction.Auction{Address: addr}

	beneficiary, err := r.callAddress(ctx, addr, "beneficiary")
	if err != nil {
		return nil, err
	}
	a.Beneficiary = beneficiary

	for _, field := range []struct {
		method string
		dst    *int64
	}{
		{"biddingStart", &a.BiddingStart},
		{"biddingEnd", &a.BiddingEnd},
		{"revealEnd", &a.RevealEnd},
	} {
		v, err := r.callBig(ctx, addr, field.method)
		if err != nil {
			return nil, err
		}
		*field.dst = v.Int64()
	}

	ended, err := r.callBool(ctx, addr, "ended")
	if err != nil {
		return nil, err
	}
	a.EndedFlag = ended

	highestBid, err := r.callBig(ctx, addr, "highestBid")
	if err != nil {
		return nil, err
	}
	a.HighestBid = highestBid

	highestBidder, err := r.callAddress(ctx, addr, "highestBidder")
	if err != nil {
		return nil, err
	}
	a.HighestBidder = highestBidder

	if r.factory != nil {
		md, err := r.lookupMetadata(ctx, addr)
		if err != nil {
			return nil, err
		}
		a.Metadata = md
	}

	return a, nil
}

func (r *ContractReader) lookupMetadata(ctx context.Context, addr common.Address) (*auction.Metadata, error) {
	r.mu.Lock()
	md, ok := r.metadata[addr]
	r.mu.Unlock()
	if ok {
		return md, nil
	}

	md, err := r.FetchMetadata(ctx, r.factory.Address, addr, r.factory.FromBlock)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.metadata[addr] = md
	r.mu.Unlock()
	return md, nil
}

// FetchMetadata reads the NFT metadata from the factory's AuctionCreated
// event for the given auction, scanning logs from fromBlock.
func (r *ContractReader) FetchMetadata(ctx context.Context, factory, auctionAddr common.Address, fromBlock uint64) (*auction.Metadata, error) {
	ev := auctionABI.Events["AuctionCreated"]
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{factory},
		Topics: [][]common.Hash{
			{ev.ID},
			{common.BytesToHash(auctionAddr.Bytes())},
		},
	}

	logs, err := r.client.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("filtering creation logs: %w", err)
	}
	if len(logs) == 0 {
		return nil, fmt.Errorf("no creation event for auction %s", auctionAddr)
	}

	var decoded struct {
		Name        string
		Description string
		ImageRef    string
		MinPrice    *big.Int
	}
	if err := auctionABI.UnpackIntoInterface(&decoded, "AuctionCreated", logs[0].Data); err != nil {
		return nil, fmt.Errorf("decoding creation event: %w", err)
	}

	return &auction.Metadata{
		Name:        decoded.Name,
		Description: decoded.Description,
		ImageRef:    decoded.ImageRef,
		MinPrice:    decoded.MinPrice,
	}, nil
}

func (r *ContractReader) call(ctx context.Context, addr common.Address, method string) ([]interface{}, error) {
	data, err := auctionABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s on %s: %w", method, addr, err)
	}

	vals, err := auctionABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}
	return vals, nil
}

func (r *ContractReader) callAddress(ctx context.Context, addr common.Address, method string) (common.Address, error) {
	vals, err := r.call(ctx, addr, method)
	if err != nil {
		return common.Address{}, err
	}
	out, ok := vals[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s: unexpected return type %T", method, vals[0])
	}
	return out, nil
}

func (r *ContractReader) callBig(ctx context.Context, addr common.Address, method string) (*big.Int, error) {
	vals, err := r.call(ctx, addr, method)
	if err != nil {
		return nil, err
	}
	out, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected return type %T", method, vals[0])
	}
	return out, nil
}

func (r *ContractReader) callBool(ctx context.Context, addr common.Address, method string) (bool, error) {
	vals, err := r.call(ctx, addr, method)
	if err != nil {
		return false, err
	}
	out, ok := vals[0].(bool)
	if !ok {
		return false, fmt.Errorf("%s: unexpected return type %T", method, vals[0])
	}
	return out, nil
}
