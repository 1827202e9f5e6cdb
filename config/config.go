package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	ClusterMainnet = "mainnet-beta"
	ClusterDevnet  = "devnet"
	ClusterTestnet = "testnet"
)

const (
	DefaultRPCURL       = "https://api.mainnet-beta.solana.com"
	DefaultExplorerBase = "https://explorer.solana.com"

	// DefaultMint is the SWELL token mint on mainnet-beta.
	DefaultMint = "SWELC7x6fmv94T3Sqf1gXAGUyGN2M9Rja9oZgUjTUxC"

	DefaultComputeUnitLimit = uint32(200_000)
	DefaultConfirmTimeout   = 60 * time.Second
	DefaultConfirmPoll      = 2 * time.Second
)

// Config is the full configuration surface of the SWELL token core. Values
// come from defaults, then an optional YAML file, then environment variables
// (SWELL_*), in that order of increasing precedence.
type Config struct {
	Cluster    string `yaml:"cluster"`
	RPCURL     string `yaml:"rpc_url"`
	Commitment string `yaml:"commitment"`
	Mint       string `yaml:"mint"`

	// PriorityFee is the default compute-unit price in micro-lamports per
	// compute unit. Zero disables the price instruction entirely.
	PriorityFee      uint64 `yaml:"priority_fee"`
	ComputeUnitLimit uint32 `yaml:"compute_unit_limit"`

	ConfirmTimeoutMS uint64 `yaml:"confirm_timeout_ms"`
	ConfirmPollMS    uint64 `yaml:"confirm_poll_ms"`

	ExplorerBase string `yaml:"explorer_base"`
}

func defaultConfig() *Config {
	return &Config{
		Cluster:          ClusterMainnet,
		RPCURL:           DefaultRPCURL,
		Commitment:       string(rpc.CommitmentConfirmed),
		Mint:             DefaultMint,
		PriorityFee:      0,
		ComputeUnitLimit: DefaultComputeUnitLimit,
		ConfirmTimeoutMS: uint64(DefaultConfirmTimeout / time.Millisecond),
		ConfirmPollMS:    uint64(DefaultConfirmPoll / time.Millisecond),
		ExplorerBase:     DefaultExplorerBase,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and SWELL_* environment variables. A .env file in the
// working directory is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err = yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SWELL_CLUSTER"); v != "" {
		cfg.Cluster = v
	}
	if v := os.Getenv("SWELL_RPC_URL"); v != "" {
		cfg.RPCURL = v
	}
	if v := os.Getenv("SWELL_COMMITMENT"); v != "" {
		cfg.Commitment = v
	}
	if v := os.Getenv("SWELL_MINT"); v != "" {
		cfg.Mint = v
	}
	if v := os.Getenv("SWELL_PRIORITY_FEE"); v != "" {
		if fee, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.PriorityFee = fee
		}
	}
	if v := os.Getenv("SWELL_CONFIRM_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.ConfirmTimeoutMS = ms
		}
	}
}

// Validate checks the fields that later code assumes are well formed.
func (c *Config) Validate() error {
	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment level: %s", c.Commitment)
	}
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url cannot be empty")
	}
	if _, err := solana.PublicKeyFromBase58(c.Mint); err != nil {
		return fmt.Errorf("invalid mint address %s: %w", c.Mint, err)
	}
	if c.ComputeUnitLimit == 0 {
		return fmt.Errorf("compute unit limit cannot be 0")
	}
	return nil
}

// CommitmentType returns the configured commitment as the SDK type.
func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// MintKey returns the configured mint as a public key. Validate must have
// accepted the config first; an invalid mint panics here.
func (c *Config) MintKey() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.Mint)
}

func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutMS) * time.Millisecond
}

func (c *Config) ConfirmPollInterval() time.Duration {
	return time.Duration(c.ConfirmPollMS) * time.Millisecond
}

// TxURL returns the explorer link for a transaction signature.
func (c *Config) TxURL(signature string) string {
	return fmt.Sprintf("%s/tx/%s%s", c.ExplorerBase, signature, c.clusterSuffix())
}

// AddressURL returns the explorer link for an account address.
func (c *Config) AddressURL(address string) string {
	return fmt.Sprintf("%s/address/%s%s", c.ExplorerBase, address, c.clusterSuffix())
}

func (c *Config) clusterSuffix() string {
	if c.Cluster == "" || c.Cluster == ClusterMainnet {
		return ""
	}
	return "?cluster=" + c.Cluster
}
