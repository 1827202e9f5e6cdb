package connection

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/RITTUVIK/Swell-Bible/config"
	"github.com/RITTUVIK/Swell-Bible/service/solrpc"
)

// Provider owns the RPC clients for one endpoint: the solana-go SDK client
// for everything transaction-shaped, plus a raw JSON-RPC client for the
// reads the SDK does not cover. Construct one per endpoint and inject it;
// there is no package-level singleton, a "reset" is a fresh New call.
type Provider struct {
	cfg        *config.Config
	rpcClient  *rpc.Client
	rawClient  *solrpc.Client
	commitment rpc.CommitmentType
}

func New(cfg *config.Config) *Provider {
	return &Provider{
		cfg:        cfg,
		rpcClient:  rpc.New(cfg.RPCURL),
		rawClient:  solrpc.New(cfg.RPCURL),
		commitment: cfg.CommitmentType(),
	}
}

// NewWithEndpoint builds a provider against an explicit endpoint,
// keeping the rest of the config. Used by tests and custom deployments.
func NewWithEndpoint(cfg *config.Config, endpoint string) *Provider {
	return &Provider{
		cfg:        cfg,
		rpcClient:  rpc.New(endpoint),
		rawClient:  solrpc.New(endpoint),
		commitment: cfg.CommitmentType(),
	}
}

// Client exposes the underlying SDK client for the token service.
func (p *Provider) Client() *rpc.Client {
	return p.rpcClient
}

// HealthCheck does one lightweight getHealth read. It reports false
// instead of failing so callers can branch without error plumbing.
func (p *Provider) HealthCheck(ctx context.Context) bool {
	health, err := p.rawClient.GetHealth(ctx)
	if err != nil {
		log.Warn("health check failed", "err", err)
		return false
	}
	return health == solrpc.HealthOk
}

// LatestBlockhash fetches a fresh blockhash and the block height it stays
// valid until, at the configured commitment.
func (p *Provider) LatestBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	out, err := p.rpcClient.GetLatestBlockhash(ctx, p.commitment)
	if err != nil {
		return solana.Hash{}, 0, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, 0, fmt.Errorf("invalid blockhash response: empty value")
	}
	return out.Value.Blockhash, out.Value.LastValidBlockHeight, nil
}

// Slot returns the current slot at the configured commitment.
func (p *Provider) Slot(ctx context.Context) (uint64, error) {
	return p.rawClient.GetSlot(ctx, string(p.commitment))
}

// SuggestPriorityFee samples recent prioritization fees and returns the
// 75th percentile in micro-lamports per compute unit. Callers that do not
// want the static configured default can feed this into a TransferRequest.
func (p *Provider) SuggestPriorityFee(ctx context.Context) (uint64, error) {
	fees, err := p.rawClient.GetRecentPrioritizationFees(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get recent prioritization fees: %w", err)
	}
	return solrpc.SuggestedPriorityFee(fees), nil
}
