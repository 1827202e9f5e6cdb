package swell

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/RITTUVIK/Swell-Bible/config"
)

// ChainClient is the slice of the solana-go RPC client the token core
// actually uses. *rpc.Client satisfies it; tests inject fakes.
type ChainClient interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SimulateTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetTransaction(ctx context.Context, txSig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
}

var _ ChainClient = (*rpc.Client)(nil)

// Service is the SWELL token core: token-account resolution, balance
// reads, and the transfer pipeline, all against one configured mint. It
// holds no state beyond the injected client and the mint decimals cache,
// so one instance is safe for concurrent use.
type Service struct {
	cfg        *config.Config
	client     ChainClient
	mint       solana.PublicKey
	commitment rpc.CommitmentType
	mints      *MintCache
}

func NewService(cfg *config.Config, client ChainClient) *Service {
	mint := cfg.MintKey()
	return &Service{
		cfg:        cfg,
		client:     client,
		mint:       mint,
		commitment: cfg.CommitmentType(),
		mints:      NewMintCache(client, mint, cfg.CommitmentType()),
	}
}

// Mint returns the configured token mint.
func (s *Service) Mint() solana.PublicKey {
	return s.mint
}

// Decimals exposes the cached mint precision.
func (s *Service) Decimals(ctx context.Context) (uint8, error) {
	return s.mints.Decimals(ctx)
}

// InvalidateMint drops the cached decimals so the next read refetches.
func (s *Service) InvalidateMint() {
	s.mints.Invalidate()
}
