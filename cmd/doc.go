// Package cmd provides the CLI commands for the blind auction services.
//
// # Commands
//
// auctiond: Runs the auction HTTP service. Aggregates on-chain auction state
// for the tracked contracts, serves it to the UI, and (when a signing key is
// configured) submits bid, reveal, settlement and withdrawal transactions.
//
//	go run ./cmd/auctiond --rpc=http://localhost:8545 --chain-id=31337 \
//	    --auctions=0xabc...,0xdef...
//	go run ./cmd/auctiond --config=auctiond.yaml
//
// # Configuration
//
// auctiond supports a YAML configuration file via the --config flag.
// Command-line flags override config file values.
//
// Example config:
//
//	listen_addr: ":8080"
//	rpc_url: "http://localhost:8545"
//	chain_id: 31337
//	private_key: ""          # Hex-encoded ECDSA key; read-only if empty
//	factory: "0xfac..."      # AuctionCreated event source; metadata disabled if empty
//	from_block: 0
//	auctions:
//	  - "0xabc..."
//	cache_ttl: 10m
//	postgres:
//	  host: ""               # In-memory store if empty
//	  port: 5432
//	  user: "auction"
//	  password: ""
//	  database: "auction"
//	  ssl_mode: "disable"
package cmd
