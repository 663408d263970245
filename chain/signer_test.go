package chain

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known test key, do not fund.
const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

type fakeTxClient struct {
	fakeRPC
	sent          []*types.Transaction
	receiptStatus uint64
	receiptDelay  int // polls before the receipt shows up
}

func (f *fakeTxClient) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeTxClient) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeTxClient) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 90_000, nil
}

func (f *fakeTxClient) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeTxClient) TransactionReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	if f.receiptDelay > 0 {
		f.receiptDelay--
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: f.receiptStatus}, nil
}

func newTestSigner(t *testing.T, client TxClient) *KeyedSigner {
	t.Helper()
	s, err := NewKeyedSigner(client, testKeyHex, big.NewInt(1337))
	require.NoError(t, err)
	s.pollInterval = time.Millisecond
	s.confirmTimeout = 50 * time.Millisecond
	return s
}

func TestBidSubmitsSignedTransaction(t *testing.T) {
	client := &fakeTxClient{receiptStatus: types.ReceiptStatusSuccessful}
	s := newTestSigner(t, client)

	auctionAddr := common.HexToAddress("0xabc")
	var blinded [32]byte
	blinded[0] = 0xde

	hash, err := s.Bid(context.Background(), auctionAddr, blinded, big.NewInt(100))
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	tx := client.sent[0]
	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, &auctionAddr, tx.To())
	assert.Equal(t, big.NewInt(100), tx.Value())
	assert.Equal(t, uint64(7), tx.Nonce())

	// Calldata starts with the bid selector and carries the commitment.
	assert.Equal(t, auctionABI.Methods["bid"].ID, tx.Data()[:4])
	assert.Contains(t, common.Bytes2Hex(tx.Data()), common.Bytes2Hex(blinded[:]))
}

func TestWaitConfirmedOutcomes(t *testing.T) {
	t.Run("success after delay", func(t *testing.T) {
		client := &fakeTxClient{receiptStatus: types.ReceiptStatusSuccessful, receiptDelay: 2}
		s := newTestSigner(t, client)
		require.NoError(t, s.WaitConfirmed(context.Background(), common.Hash{1}))
	})

	t.Run("reverted", func(t *testing.T) {
		client := &fakeTxClient{receiptStatus: types.ReceiptStatusFailed}
		s := newTestSigner(t, client)
		err := s.WaitConfirmed(context.Background(), common.Hash{1})
		require.ErrorIs(t, err, ErrWriteReverted)
	})

	t.Run("timeout is indeterminate", func(t *testing.T) {
		client := &fakeTxClient{receiptDelay: 1 << 30}
		s := newTestSigner(t, client)
		err := s.WaitConfirmed(context.Background(), common.Hash{1})
		require.ErrorIs(t, err, ErrWriteTimedOut)
	})
}

func TestNewKeyedSignerRejectsBadKey(t *testing.T) {
	_, err := NewKeyedSigner(&fakeTxClient{}, "not-a-key", big.NewInt(1))
	require.Error(t, err)
}
