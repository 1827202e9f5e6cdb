package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// TokenBalance is the SWELL holding of a single owner. Amount is the
// human-readable value, RawAmount the integer token units on chain, and
// Account the associated token account the balance lives in. When the
// account has never been created AccountExists is false and both amounts
// are zero.
type TokenBalance struct {
	Amount        decimal.Decimal
	RawAmount     uint64
	Account       solana.PublicKey
	AccountExists bool
}

// TransferRequest describes one SWELL transfer. Recipient is the owner
// wallet address in base58, not a token account. PriorityFee is the
// compute-unit price in micro-lamports per compute unit; nil falls back to
// the configured default, an explicit zero disables the price instruction.
type TransferRequest struct {
	Sender      Signer
	Recipient   string
	Amount      decimal.Decimal
	PriorityFee *uint64
}

// TransferResult is produced only after the network confirmed the
// transaction. BlockTime may stay nil when the cluster has not yet
// attached a timestamp to the slot.
type TransferResult struct {
	Signature   string
	Slot        uint64
	BlockTime   *int64
	ExplorerURL string
}

// EnsureAccountResult reports what resolving a token account did. When
// Existed is true nothing was submitted and CreateSignature is empty.
type EnsureAccountResult struct {
	Address         solana.PublicKey
	Existed         bool
	CreateSignature string
}
