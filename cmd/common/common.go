// Package common provides shared configuration loading for the auction CLI
// commands.
package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/respect-778/NFT-Blind-Auction-System-sub000/store"
)

// Config is the YAML configuration for auctiond. Command-line flags override
// the values loaded from file.
type Config struct {
	ListenAddr  string                `yaml:"listen_addr"`
	MetricsAddr string                `yaml:"metrics_addr"`
	RPCURL      string                `yaml:"rpc_url"`
	ChainID     int64                 `yaml:"chain_id"`
	PrivateKey  string                `yaml:"private_key"`
	Factory     string                `yaml:"factory"`
	FromBlock   uint64                `yaml:"from_block"`
	Auctions    []string              `yaml:"auctions"`
	CacheTTL    time.Duration         `yaml:"cache_ttl"`
	Postgres    *store.PostgresConfig `yaml:"postgres"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8080",
		ChainID:    1,
	}
}

// LoadConfig reads a YAML config file, applying defaults for absent fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ParseAuctionList parses a comma-separated list of hex contract addresses.
func ParseAuctionList(raw string) ([]common.Address, error) {
	var out []common.Address
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !common.IsHexAddress(part) {
			return nil, fmt.Errorf("invalid auction address %q", part)
		}
		out = append(out, common.HexToAddress(part))
	}
	return out, nil
}

// AuctionAddresses resolves the configured auction list into addresses.
func (c *Config) AuctionAddresses() ([]common.Address, error) {
	return ParseAuctionList(strings.Join(c.Auctions, ","))
}
