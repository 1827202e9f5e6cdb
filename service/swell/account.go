package swell

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/RITTUVIK/Swell-Bible/domain"
)

// TokenAccountAddress derives the owner's associated token account for the
// configured mint. Pure computation, no network access, and stable for a
// given (mint, owner) pair, so any compliant wallet or explorer resolves
// to the same address.
func (s *Service) TokenAccountAddress(owner solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindAssociatedTokenAddress(owner, s.mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find associated token address: %w", err)
	}
	return address, nil
}

// TokenAccountExists does one read to check whether the owner's token
// account is on chain. An absent account is a normal false, not an error.
func (s *Service) TokenAccountExists(ctx context.Context, owner solana.PublicKey) (bool, error) {
	address, err := s.TokenAccountAddress(owner)
	if err != nil {
		return false, err
	}
	return s.accountExists(ctx, address)
}

func (s *Service) accountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	out, err := s.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: s.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, Classify(err)
	}
	return out != nil && out.Value != nil, nil
}

// BuildCreateAccountInstruction constructs the instruction that creates
// the owner's associated token account, rent paid by payer. Pure
// construction, nothing is submitted.
func (s *Service) BuildCreateAccountInstruction(payer, owner solana.PublicKey) solana.Instruction {
	return associatedtokenaccount.NewCreateInstruction(
		payer,
		owner,
		s.mint,
	).Build()
}

// EnsureTokenAccount makes sure the owner's token account exists,
// creating it on chain when it does not. This is the explicit write
// operation: it builds a create transaction paid by the signer, simulates
// it, and only signs and submits when simulation reports no error, then
// waits for confirmation. Use TokenAccountExists when a pure read is
// enough.
func (s *Service) EnsureTokenAccount(ctx context.Context, signer domain.Signer, owner solana.PublicKey) (*domain.EnsureAccountResult, error) {
	address, err := s.TokenAccountAddress(owner)
	if err != nil {
		return nil, newError(CodeUnknown, "failed to derive token account address", err)
	}

	exists, err := s.accountExists(ctx, address)
	if err != nil {
		return nil, err
	}
	if exists {
		return &domain.EnsureAccountResult{Address: address, Existed: true}, nil
	}

	payer := signer.PublicKey()
	blockhash, lastValidHeight, err := s.latestBlockhash(ctx)
	if err != nil {
		return nil, Classify(err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{s.BuildCreateAccountInstruction(payer, owner)},
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, newError(CodeAccountCreationFailed, "failed to build create-account transaction", err)
	}

	if err = s.simulate(ctx, tx); err != nil {
		return nil, err
	}

	if err = s.signWith(ctx, signer, tx); err != nil {
		return nil, err
	}

	signature, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: s.commitment,
	})
	if err != nil {
		return nil, newError(CodeAccountCreationFailed,
			fmt.Sprintf("failed to submit create-account transaction for %s", address), err)
	}

	if _, err = s.waitForConfirmation(ctx, signature, lastValidHeight); err != nil {
		return nil, err
	}

	log.Info("created associated token account", "address", address, "owner", owner, "signature", signature)
	return &domain.EnsureAccountResult{
		Address:         address,
		Existed:         false,
		CreateSignature: signature.String(),
	}, nil
}
