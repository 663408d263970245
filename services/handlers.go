package services

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/auction"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/chain"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/client"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/commitment"
)

// AuctionView is an auction snapshot with its phase derived at render time.
type AuctionView struct {
	*auction.Auction
	Phase string `json:"phase"`
}

// AuctionListResponse reports the aggregation outcome. Failed is the number
// of addresses that are not in Auctions, whether retries were exhausted or
// the run was cut short, so the UI can flag partial data instead of silently
// dropping it. Truncated is set when a timeout stopped the run before every
// address was attempted.
type AuctionListResponse struct {
	Auctions  []AuctionView `json:"auctions"`
	Failed    int           `json:"failed"`
	Truncated bool          `json:"truncated,omitempty"`
}

// PlaceBidRequest carries the user-chosen bid parameters. Value and Deposit
// are decimal wei strings.
type PlaceBidRequest struct {
	Value   string `json:"value"`
	Fake    bool   `json:"fake"`
	Secret  string `json:"secret"`
	Deposit string `json:"deposit"`
}

// RevealRequest selects the ledger slots to reveal.
type RevealRequest struct {
	Slots []auction.SlotIndex `json:"slots"`
}

// TxResponse reports a confirmed transaction.
type TxResponse struct {
	TxHash common.Hash `json:"tx_hash"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleListAuctions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
		defer cancel()
	}

	res, err := s.agg.FetchAll(ctx, s.config.Auctions)
	if err != nil && len(res.Auctions) == 0 {
		writeError(w, http.StatusGatewayTimeout, err)
		return
	}

	resp := AuctionListResponse{
		Auctions:  make([]AuctionView, 0, len(res.Auctions)),
		Failed:    res.Failed + res.Unfetched,
		Truncated: res.Unfetched > 0,
	}
	now := s.now()
	for _, a := range res.Auctions {
		resp.Auctions = append(resp.Auctions, AuctionView{Auction: a, Phase: a.PhaseAt(now).String()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleGetAuction(w http.ResponseWriter, r *http.Request) {
	addr, ok := parseAddress(w, r)
	if !ok {
		return
	}

	res, err := s.agg.FetchAll(r.Context(), []common.Address{addr})
	if err != nil || len(res.Auctions) == 0 {
		writeError(w, http.StatusBadGateway, errors.New("auction state unavailable"))
		return
	}

	a := res.Auctions[0]
	writeJSON(w, http.StatusOK, AuctionView{Auction: a, Phase: a.PhaseAt(s.now()).String()})
}

func (s *Service) handleListBids(w http.ResponseWriter, r *http.Request) {
	addr, ok := parseAddress(w, r)
	if !ok {
		return
	}
	if s.client == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no signing account configured"))
		return
	}

	bids, err := s.ledger.ListFor(s.client.User(), addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if bids == nil {
		bids = []auction.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

func (s *Service) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	addr, ok := parseAddress(w, r)
	if !ok {
		return
	}
	if s.client == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no signing account configured"))
		return
	}

	var req PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	value, ok1 := new(big.Int).SetString(req.Value, 10)
	deposit, ok2 := new(big.Int).SetString(req.Deposit, 10)
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, errors.New("value and deposit must be decimal wei strings"))
		return
	}

	bid, err := s.client.PlaceBid(r.Context(), addr, client.BidParams{
		Value:   value,
		Fake:    req.Fake,
		Secret:  []byte(req.Secret),
		Deposit: deposit,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bid)
}

func (s *Service) handleReveal(w http.ResponseWriter, r *http.Request) {
	addr, ok := parseAddress(w, r)
	if !ok {
		return
	}
	if s.client == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no signing account configured"))
		return
	}

	var req RevealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Slots) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("no slots selected"))
		return
	}

	payload, err := s.client.Reveal(r.Context(), addr, req.Slots)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"revealed": len(payload.Slots)})
}

func (s *Service) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	addr, ok := parseAddress(w, r)
	if !ok {
		return
	}
	if s.client == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no signing account configured"))
		return
	}

	txHash, err := s.client.Withdraw(r.Context(), addr)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TxResponse{TxHash: txHash})
}

func (s *Service) handleEndAuction(w http.ResponseWriter, r *http.Request) {
	addr, ok := parseAddress(w, r)
	if !ok {
		return
	}
	if s.client == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no signing account configured"))
		return
	}

	txHash, err := s.client.EndAuction(r.Context(), addr)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TxResponse{TxHash: txHash})
}

func (s *Service) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.ClearAll(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func parseAddress(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := chi.URLParam(r, "address")
	if !common.IsHexAddress(raw) {
		writeError(w, http.StatusBadRequest, errors.New("invalid auction address"))
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// writeWorkflowError maps the error taxonomy of the write path onto HTTP
// statuses. Timeouts are indeterminate, not failed: the user is told to
// check an explorer rather than retry blindly.
func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, commitment.ErrInvalidBidValue),
		errors.Is(err, client.ErrMismatchedAuction):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, client.ErrAlreadyRevealed):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, chain.ErrWriteReverted):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, chain.ErrWriteTimedOut):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{
			Error: err.Error() + "; transaction is indeterminate, check a block explorer before retrying",
		})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusGatewayTimeout, err)
	default:
		writeError(w, http.StatusBadGateway, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
