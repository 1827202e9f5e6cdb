package swell

import (
	"context"
	"fmt"
	"sync"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// MintCache memoizes the mint's decimal precision for the process
// lifetime. The first Decimals call fetches and decodes the mint account;
// later calls return the cached value without touching the network. A
// failed fetch leaves the cache empty so a later call can retry.
type MintCache struct {
	client     ChainClient
	mint       solana.PublicKey
	commitment rpc.CommitmentType

	mu       sync.Mutex
	decimals uint8
	loaded   bool
}

func NewMintCache(client ChainClient, mint solana.PublicKey, commitment rpc.CommitmentType) *MintCache {
	return &MintCache{
		client:     client,
		mint:       mint,
		commitment: commitment,
	}
}

func (c *MintCache) Decimals(ctx context.Context) (uint8, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.decimals, nil
	}

	decimals, err := c.fetchDecimals(ctx)
	if err != nil {
		return 0, newError(CodeMintFetchFailed,
			fmt.Sprintf("failed to fetch mint metadata for %s", c.mint), err)
	}

	c.decimals = decimals
	c.loaded = true
	return decimals, nil
}

// Invalidate clears the cache; the next Decimals call refetches.
func (c *MintCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.decimals = 0
}

func (c *MintCache) fetchDecimals(ctx context.Context) (uint8, error) {
	out, err := c.client.GetAccountInfoWithOpts(ctx, c.mint, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get mint account: %w", err)
	}
	if out == nil || out.Value == nil {
		return 0, fmt.Errorf("mint account %s not found", c.mint)
	}

	data := out.Value.Data.GetBinary()
	if len(data) == 0 {
		return 0, fmt.Errorf("mint account %s has no data", c.mint)
	}

	var mint token.Mint
	if err = bin.NewBinDecoder(data).Decode(&mint); err != nil {
		return 0, fmt.Errorf("failed to decode mint account data: %w", err)
	}
	if !mint.IsInitialized {
		return 0, fmt.Errorf("mint account %s is not initialized", c.mint)
	}

	return mint.Decimals, nil
}
