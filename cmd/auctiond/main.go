// Command auctiond runs the blind auction HTTP service.
//
// It connects to an Ethereum JSON-RPC endpoint, aggregates the state of the
// tracked auction contracts, and serves it over HTTP. With a private key
// configured it also submits bid, reveal, settlement and withdrawal
// transactions; without one it runs read-only.
//
// # Usage
//
//	go run ./cmd/auctiond --rpc=http://localhost:8545 --chain-id=31337 \
//	    --auctions=0xabc...,0xdef...
//	go run ./cmd/auctiond --config=auctiond.yaml
//
// Bid state lives in PostgreSQL when a postgres section is configured, in
// memory otherwise.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/aggregator"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/api/httpserver"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/cache"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/chain"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/client"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/cmd/common"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/ledger"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/services"
	"github.com/respect-778/NFT-Blind-Auction-System-sub000/store"
)

func main() {
	var (
		configPath    = flag.String("config", "", "Path to YAML config file")
		addr          = flag.String("addr", "", "HTTP listen address")
		rpcURL        = flag.String("rpc", "", "Ethereum JSON-RPC endpoint")
		chainID       = flag.Int64("chain-id", 0, "Chain ID for transaction signing")
		privateKeyHex = flag.String("private-key", "", "ECDSA private key (hex); read-only if empty")
		factoryAddr   = flag.String("factory", "", "Factory contract emitting AuctionCreated events; metadata disabled if empty")
		fromBlock     = flag.Uint64("from-block", 0, "Block to start scanning for creation events")
		auctionList   = flag.String("auctions", "", "Comma-separated auction contract addresses")
		cacheTTL      = flag.Duration("cache-ttl", 0, "Freshness window for cached ended auctions")
		metricsAddr   = flag.String("metrics-addr", "", "Prometheus metrics listen address (disabled if empty)")
		enablePprof   = flag.Bool("pprof", false, "Enable the pprof debugging API")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var cfg *common.Config
	var err error
	if *configPath != "" {
		cfg, err = common.LoadConfig(*configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = common.DefaultConfig()
	}

	// Command-line flags override config file
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *rpcURL != "" {
		cfg.RPCURL = *rpcURL
	}
	if *chainID != 0 {
		cfg.ChainID = *chainID
	}
	if *privateKeyHex != "" {
		cfg.PrivateKey = *privateKeyHex
	}
	if *factoryAddr != "" {
		cfg.Factory = *factoryAddr
	}
	if *fromBlock != 0 {
		cfg.FromBlock = *fromBlock
	}
	if *cacheTTL != 0 {
		cfg.CacheTTL = *cacheTTL
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	if cfg.RPCURL == "" {
		fmt.Println("Error: rpc_url is required (via --rpc or config file)")
		os.Exit(1)
	}

	auctions, err := cfg.AuctionAddresses()
	if err != nil {
		fmt.Printf("Auction list error: %v\n", err)
		os.Exit(1)
	}
	if *auctionList != "" {
		auctions, err = common.ParseAuctionList(*auctionList)
		if err != nil {
			fmt.Printf("Auction list error: %v\n", err)
			os.Exit(1)
		}
	}

	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		fmt.Printf("RPC connection error: %v\n", err)
		os.Exit(1)
	}
	defer eth.Close()

	var kv store.KV
	if cfg.Postgres != nil && cfg.Postgres.Host != "" {
		pg, err := store.NewPostgresStore(cfg.Postgres)
		if err != nil {
			fmt.Printf("Postgres error: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()
		kv = pg
	} else {
		log.Warn("no postgres configured, bid state is in-memory only")
		kv = store.NewMemStore()
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = cache.DefaultFreshness
	}
	endedCache := cache.New(kv, ttl)
	bidLedger := ledger.New(kv)

	var reader *chain.ContractReader
	if cfg.Factory != "" {
		if !ethcommon.IsHexAddress(cfg.Factory) {
			fmt.Printf("Invalid factory address %q\n", cfg.Factory)
			os.Exit(1)
		}
		reader = chain.NewContractReaderWithFactory(eth, chain.FactoryConfig{
			Address:   ethcommon.HexToAddress(cfg.Factory),
			FromBlock: cfg.FromBlock,
		})
	} else {
		log.Warn("no factory configured, auction metadata will not be served")
		reader = chain.NewContractReader(eth)
	}
	agg := aggregator.New(reader, endedCache, aggregator.ReaderConfig{}, log)

	var cl *client.Client
	if cfg.PrivateKey != "" {
		signer, err := chain.NewKeyedSigner(eth, cfg.PrivateKey, big.NewInt(cfg.ChainID))
		if err != nil {
			fmt.Printf("Signing key error: %v\n", err)
			os.Exit(1)
		}
		cl = client.New(signer.From(), signer, bidLedger, log)
		fmt.Printf("Signing account: %s\n", signer.From().Hex())
	} else {
		fmt.Println("No private key configured, running read-only")
	}

	svc := services.New(&services.Config{
		ListenAddr: cfg.ListenAddr,
		Auctions:   auctions,
	}, agg, cl, endedCache, bidLedger, log)

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               cfg.ListenAddr,
		MetricsAddr:              cfg.MetricsAddr,
		EnablePprof:              *enablePprof,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             180 * time.Second, // write endpoints wait for confirmation
	}, svc)
	if err != nil {
		fmt.Printf("Server error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("auctiond listening on %s, tracking %d auctions\n", cfg.ListenAddr, len(auctions))
	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Shutting down auctiond...")
	srv.Shutdown()
}
