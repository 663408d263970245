package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRPC serves ABI-encoded responses for the auction view functions.
type fakeRPC struct {
	beneficiary   common.Address
	biddingStart  int64
	biddingEnd    int64
	revealEnd     int64
	ended         bool
	highestBid    *big.Int
	highestBidder common.Address

	failMethod string
	logs       []types.Log
	logErr     error
	logCalls   int
}

func (f *fakeRPC) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method, err := auctionABI.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	if method.Name == f.failMethod {
		return nil, errors.New("429 too many requests")
	}

	switch method.Name {
	case "beneficiary":
		return method.Outputs.Pack(f.beneficiary)
	case "biddingStart":
		return method.Outputs.Pack(big.NewInt(f.biddingStart))
	case "biddingEnd":
		return method.Outputs.Pack(big.NewInt(f.biddingEnd))
	case "revealEnd":
		return method.Outputs.Pack(big.NewInt(f.revealEnd))
	case "ended":
		return method.Outputs.Pack(f.ended)
	case "highestBid":
		return method.Outputs.Pack(f.highestBid)
	case "highestBidder":
		return method.Outputs.Pack(f.highestBidder)
	}
	return nil, errors.New("unexpected method " + method.Name)
}

func (f *fakeRPC) FilterLogs(_ context.Context, _ ethereum.FilterQuery) ([]types.Log, error) {
	f.logCalls++
	return f.logs, f.logErr
}

func TestFetchAuction(t *testing.T) {
	rpc := &fakeRPC{
		beneficiary:   common.HexToAddress("0x01"),
		biddingStart:  100,
		biddingEnd:    200,
		revealEnd:     300,
		ended:         true,
		highestBid:    big.NewInt(5000),
		highestBidder: common.HexToAddress("0x02"),
	}
	r := NewContractReader(rpc)

	addr := common.HexToAddress("0xabc")
	a, err := r.FetchAuction(context.Background(), addr)
	require.NoError(t, err)

	assert.Equal(t, addr, a.Address)
	assert.Equal(t, rpc.beneficiary, a.Beneficiary)
	assert.Equal(t, int64(100), a.BiddingStart)
	assert.Equal(t, int64(200), a.BiddingEnd)
	assert.Equal(t, int64(300), a.RevealEnd)
	assert.True(t, a.EndedFlag)
	assert.Equal(t, big.NewInt(5000), a.HighestBid)
	assert.Equal(t, rpc.highestBidder, a.HighestBidder)
}

func TestFetchAuctionPropagatesCallErrors(t *testing.T) {
	rpc := &fakeRPC{highestBid: big.NewInt(0), failMethod: "revealEnd"}
	r := NewContractReader(rpc)

	_, err := r.FetchAuction(context.Background(), common.HexToAddress("0xabc"))
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}

func TestFetchMetadata(t *testing.T) {
	ev := auctionABI.Events["AuctionCreated"]
	data, err := ev.Inputs.NonIndexed().Pack(
		"Genesis Cat", "a very rare cat", "ipfs://Qm123", big.NewInt(1_000_000))
	require.NoError(t, err)

	auctionAddr := common.HexToAddress("0xabc")
	rpc := &fakeRPC{logs: []types.Log{{
		Topics: []common.Hash{ev.ID, common.BytesToHash(auctionAddr.Bytes())},
		Data:   data,
	}}}
	r := NewContractReader(rpc)

	md, err := r.FetchMetadata(context.Background(), common.HexToAddress("0xfac"), auctionAddr, 0)
	require.NoError(t, err)
	assert.Equal(t, "Genesis Cat", md.Name)
	assert.Equal(t, "a very rare cat", md.Description)
	assert.Equal(t, "ipfs://Qm123", md.ImageRef)
	assert.Equal(t, big.NewInt(1_000_000), md.MinPrice)
}

func TestFetchAuctionWithFactoryCarriesMetadata(t *testing.T) {
	ev := auctionABI.Events["AuctionCreated"]
	auctionAddr := common.HexToAddress("0xabc")
	data, err := ev.Inputs.NonIndexed().Pack(
		"Genesis Cat", "a very rare cat", "ipfs://Qm123", big.NewInt(1_000_000))
	require.NoError(t, err)

	rpc := &fakeRPC{
		highestBid: big.NewInt(0),
		logs: []types.Log{{
			Topics: []common.Hash{ev.ID, common.BytesToHash(auctionAddr.Bytes())},
			Data:   data,
		}},
	}
	r := NewContractReaderWithFactory(rpc, FactoryConfig{
		Address:   common.HexToAddress("0xfac"),
		FromBlock: 7,
	})

	a, err := r.FetchAuction(context.Background(), auctionAddr)
	require.NoError(t, err)
	require.NotNil(t, a.Metadata)
	assert.Equal(t, "Genesis Cat", a.Metadata.Name)
	assert.Equal(t, "ipfs://Qm123", a.Metadata.ImageRef)
	assert.Equal(t, 1, rpc.logCalls)

	// Creation metadata never changes, so refetching the auction serves it
	// from the memo without another log scan.
	a, err = r.FetchAuction(context.Background(), auctionAddr)
	require.NoError(t, err)
	require.NotNil(t, a.Metadata)
	assert.Equal(t, 1, rpc.logCalls)
}

func TestFetchAuctionWithoutFactorySkipsMetadata(t *testing.T) {
	rpc := &fakeRPC{highestBid: big.NewInt(0)}
	r := NewContractReader(rpc)

	a, err := r.FetchAuction(context.Background(), common.HexToAddress("0xabc"))
	require.NoError(t, err)
	assert.Nil(t, a.Metadata)
	assert.Equal(t, 0, rpc.logCalls)
}

func TestFetchMetadataNoEvent(t *testing.T) {
	r := NewContractReader(&fakeRPC{})
	_, err := r.FetchMetadata(context.Background(), common.HexToAddress("0xfac"), common.HexToAddress("0xabc"), 0)
	require.Error(t, err)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(errors.New("HTTP 429")))
	assert.True(t, IsRateLimited(errors.New("Too Many Requests")))
	assert.True(t, IsRateLimited(errors.New("Internal Server Error")))
	assert.False(t, IsRateLimited(errors.New("execution reverted")))
	assert.False(t, IsRateLimited(nil))
}
