package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Signer is the capability a wallet hands to the token core: a public key
// and the ability to sign a serialized transaction message. Key custody
// stays entirely on the caller's side; the core never sees private key
// material.
type Signer interface {
	PublicKey() solana.PublicKey
	SignMessage(ctx context.Context, message []byte) (solana.Signature, error)
}

// LocalSigner signs with an in-process keypair. Meant for the CLI and for
// tests; wallet integrations provide their own Signer.
type LocalSigner struct {
	key solana.PrivateKey
}

func NewLocalSigner(key solana.PrivateKey) *LocalSigner {
	return &LocalSigner{key: key}
}

// LocalSignerFromBase58 parses a base58-encoded private key.
func LocalSignerFromBase58(encoded string) (*LocalSigner, error) {
	key, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return nil, err
	}
	return &LocalSigner{key: key}, nil
}

func (s *LocalSigner) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

func (s *LocalSigner) SignMessage(_ context.Context, message []byte) (solana.Signature, error) {
	return s.key.Sign(message)
}
