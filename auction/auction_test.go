package auction

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePhase(t *testing.T) {
	const (
		biddingStart = int64(100)
		biddingEnd   = int64(200)
		revealEnd    = int64(300)
	)

	tests := []struct {
		name      string
		now       int64
		endedFlag bool
		want      Phase
	}{
		{"before bidding", 50, false, PhasePending},
		{"during bidding", 150, false, PhaseBidding},
		{"start boundary is bidding", 100, false, PhaseBidding},
		{"end boundary is revealing", 200, false, PhaseRevealing},
		{"during reveal", 250, false, PhaseRevealing},
		{"reveal end is terminal", 300, false, PhaseEnded},
		{"after reveal end", 1000, false, PhaseEnded},
		{"ended flag wins before start", 50, true, PhaseEnded},
		{"ended flag wins mid bidding", 150, true, PhaseEnded},
		{"ended flag wins mid reveal", 250, true, PhaseEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePhase(tt.now, biddingStart, biddingEnd, revealEnd, tt.endedFlag)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhaseAt(t *testing.T) {
	a := &Auction{
		Address:      common.HexToAddress("0x01"),
		BiddingStart: 100,
		BiddingEnd:   200,
		RevealEnd:    300,
	}

	require.Equal(t, PhaseBidding, a.PhaseAt(time.Unix(150, 0)))
	require.Equal(t, PhaseRevealing, a.PhaseAt(time.Unix(200, 0)))

	a.EndedFlag = true
	require.Equal(t, PhaseEnded, a.PhaseAt(time.Unix(150, 0)))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "pending", PhasePending.String())
	assert.Equal(t, "bidding", PhaseBidding.String())
	assert.Equal(t, "revealing", PhaseRevealing.String())
	assert.Equal(t, "ended", PhaseEnded.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
