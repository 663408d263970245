// Package services exposes the auction client core over HTTP for the UI
// layer. The handlers are thin: parsing and status mapping live here, all
// auction semantics live in the aggregator, client, cache and ledger
// packages.
package services

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/aggregator"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/cache"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/client"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/ledger"
)

// Config contains the HTTP service configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr"`

	// Auctions is the set of auction contract addresses this deployment
	// tracks.
	Auctions []common.Address `yaml:"auctions"`

	// FetchTimeout bounds one full aggregation run. Zero means no bound
	// beyond the request context.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// Service wires the core components behind HTTP routes.
type Service struct {
	config *Config
	agg    *aggregator.BatchAggregator
	client *client.Client
	cache  *cache.EndedAuctionCache
	ledger *ledger.BidLedger
	log    *slog.Logger
	now    func() time.Time
}

// New creates the HTTP service. The client may be nil for read-only
// deployments without a signing key; write endpoints then return 503.
func New(config *Config, agg *aggregator.BatchAggregator, cl *client.Client, c *cache.EndedAuctionCache, lg *ledger.BidLedger, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		config: config,
		agg:    agg,
		client: cl,
		cache:  c,
		ledger: lg,
		log:    log,
		now:    time.Now,
	}
}

// RegisterRoutes registers the HTTP routes. Request logging and panic
// recovery come from the server shell (api/httpserver).
func (s *Service) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/auctions", s.handleListAuctions)
	r.Get("/auctions/{address}", s.handleGetAuction)
	r.Get("/auctions/{address}/bids", s.handleListBids)
	r.Post("/auctions/{address}/bids", s.handlePlaceBid)
	r.Post("/auctions/{address}/reveal", s.handleReveal)
	r.Post("/auctions/{address}/withdraw", s.handleWithdraw)
	r.Post("/auctions/{address}/end", s.handleEndAuction)
	r.Post("/cache/clear", s.handleClearCache)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
