package swell

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"

	"github.com/RITTUVIK/Swell-Bible/domain"
)

// Transfer runs the full pipeline for one SWELL transfer: validate, check
// balance, build, simulate, sign, submit, confirm. Each invocation is a
// single attempt; nothing is retried here, and a retried call builds a
// brand-new transaction rather than resending the old one. Either a
// confirmed TransferResult comes back or exactly one typed error.
func (s *Service) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	recipient, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}
	sender := req.Sender.PublicKey()

	decimals, err := s.mints.Decimals(ctx)
	if err != nil {
		return nil, err
	}

	rawAmount, err := ToRawAmount(req.Amount, decimals)
	if err != nil {
		return nil, err
	}

	balance, recipientExists, err := s.readTransferState(ctx, sender, recipient)
	if err != nil {
		return nil, err
	}
	if !balance.AccountExists || balance.RawAmount < rawAmount {
		return nil, newError(CodeInsufficientBalance,
			fmt.Sprintf("balance %s is less than requested %s", balance.Amount, req.Amount), nil)
	}

	recipientAccount, err := s.TokenAccountAddress(recipient)
	if err != nil {
		return nil, newError(CodeUnknown, "failed to derive recipient token account", err)
	}

	blockhash, lastValidHeight, err := s.latestBlockhash(ctx)
	if err != nil {
		return nil, Classify(err)
	}

	tx, err := s.buildTransferTransaction(req, sender, recipient, balance.Account, recipientAccount,
		rawAmount, recipientExists, blockhash)
	if err != nil {
		return nil, newError(CodeUnknown, "failed to build transfer transaction", err)
	}

	if err = s.simulate(ctx, tx); err != nil {
		return nil, err
	}

	if err = s.signWith(ctx, req.Sender, tx); err != nil {
		return nil, err
	}

	signature, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: s.commitment,
	})
	if err != nil {
		return nil, Classify(err)
	}
	log.Info("transfer submitted", "signature", signature, "sender", sender, "recipient", recipient, "raw", rawAmount)

	slot, err := s.waitForConfirmation(ctx, signature, lastValidHeight)
	if err != nil {
		return nil, err
	}

	result := &domain.TransferResult{
		Signature:   signature.String(),
		Slot:        slot,
		ExplorerURL: s.cfg.TxURL(signature.String()),
	}

	// Best effort: the transfer is already confirmed, a missing block time
	// only leaves the field empty.
	if detail, detailErr := s.transactionDetail(ctx, signature); detailErr != nil {
		log.Warn("failed to fetch confirmed transaction detail", "signature", signature, "err", detailErr)
	} else {
		result.Slot = detail.Slot
		result.BlockTime = detail.BlockTime
	}

	return result, nil
}

func (s *Service) validateRequest(req domain.TransferRequest) (solana.PublicKey, error) {
	if req.Sender == nil {
		return solana.PublicKey{}, newError(CodeUnknown, "transfer request has no signer", nil)
	}
	if !req.Amount.IsPositive() {
		return solana.PublicKey{}, newError(CodeInvalidAmount,
			fmt.Sprintf("amount must be positive, got %s", req.Amount), nil)
	}

	decoded, err := base58.Decode(req.Recipient)
	if err != nil || len(decoded) != solana.PublicKeyLength {
		return solana.PublicKey{}, newError(CodeInvalidRecipient,
			fmt.Sprintf("recipient %q is not a valid address", req.Recipient), err)
	}
	recipient := solana.PublicKeyFromBytes(decoded)

	if recipient.Equals(req.Sender.PublicKey()) {
		return solana.PublicKey{}, newError(CodeInvalidRecipient, "sender and recipient must differ", nil)
	}
	return recipient, nil
}

// readTransferState runs the two independent network reads of the
// pipeline, sender balance and recipient account existence, concurrently.
func (s *Service) readTransferState(ctx context.Context, sender, recipient solana.PublicKey) (*domain.TokenBalance, bool, error) {
	var (
		wg              sync.WaitGroup
		balance         *domain.TokenBalance
		balanceErr      error
		recipientExists bool
		existsErr       error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		balance, balanceErr = s.Balance(ctx, sender)
	}()
	go func() {
		defer wg.Done()
		recipientExists, existsErr = s.TokenAccountExists(ctx, recipient)
	}()
	wg.Wait()

	if balanceErr != nil {
		return nil, false, Classify(balanceErr)
	}
	if existsErr != nil {
		return nil, false, Classify(existsErr)
	}
	return balance, recipientExists, nil
}

// buildTransferTransaction assembles the instruction list in its fixed
// order: compute-unit limit, compute-unit price when a fee is requested,
// recipient account creation when needed, then the token transfer. The
// sender pays fees and any rent.
func (s *Service) buildTransferTransaction(
	req domain.TransferRequest,
	sender solana.PublicKey,
	recipient solana.PublicKey,
	senderAccount solana.PublicKey,
	recipientAccount solana.PublicKey,
	rawAmount uint64,
	recipientExists bool,
	blockhash solana.Hash,
) (*solana.Transaction, error) {
	priorityFee := s.cfg.PriorityFee
	if req.PriorityFee != nil {
		priorityFee = *req.PriorityFee
	}

	instructions := []solana.Instruction{
		computebudget.NewSetComputeUnitLimitInstruction(s.cfg.ComputeUnitLimit).Build(),
	}
	if priorityFee > 0 {
		instructions = append(instructions,
			computebudget.NewSetComputeUnitPriceInstruction(priorityFee).Build())
	}
	if !recipientExists {
		instructions = append(instructions, s.BuildCreateAccountInstruction(sender, recipient))
	}
	instructions = append(instructions, token.NewTransferInstruction(
		rawAmount,
		senderAccount,
		recipientAccount,
		sender,
		[]solana.PublicKey{},
	).Build())

	return solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(sender),
	)
}

func (s *Service) latestBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	out, err := s.client.GetLatestBlockhash(ctx, s.commitment)
	if err != nil {
		return solana.Hash{}, 0, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, 0, fmt.Errorf("invalid blockhash response: empty value")
	}
	return out.Value.Blockhash, out.Value.LastValidBlockHeight, nil
}

// simulate dry-runs the complete but unsigned transaction. Any error the
// simulation reports stops the pipeline before anything reaches the chain.
func (s *Service) simulate(ctx context.Context, tx *solana.Transaction) error {
	// The wire format requires one signature slot per required signer even
	// before signing; zero signatures stand in until the real one arrives.
	if len(tx.Signatures) == 0 {
		tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	}

	out, err := s.client.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:  false,
		Commitment: s.commitment,
	})
	if err != nil {
		return Classify(err)
	}
	if out == nil || out.Value == nil {
		return newError(CodeSimulationFailed, "simulation returned no result", nil)
	}
	if out.Value.Err != nil {
		return newError(CodeSimulationFailed,
			fmt.Sprintf("simulation reported error: %v", out.Value.Err), nil)
	}
	return nil
}

// signWith delegates to the caller's signer and installs the signature.
func (s *Service) signWith(ctx context.Context, signer domain.Signer, tx *solana.Transaction) error {
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return newError(CodeUnknown, "failed to serialize transaction message", err)
	}

	signature, err := signer.SignMessage(ctx, message)
	if err != nil {
		if isRejection(err) {
			return newError(CodeUserRejected, "signer rejected the transaction", err)
		}
		return newError(CodeUnknown, "signer failed to sign the transaction", err)
	}

	tx.Signatures = []solana.Signature{signature}
	return nil
}

// waitForConfirmation polls signature statuses until the transaction
// reaches the configured commitment, the blockhash's height bound passes,
// or the configured timeout elapses.
func (s *Service) waitForConfirmation(ctx context.Context, signature solana.Signature, lastValidBlockHeight uint64) (uint64, error) {
	deadline := time.Now().Add(s.cfg.ConfirmTimeout())

	for {
		out, err := s.client.GetSignatureStatuses(ctx, true, signature)
		if err != nil {
			log.Warn("confirmation poll failed", "signature", signature, "err", err)
		} else if out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return 0, newError(CodeConfirmationFailed,
					fmt.Sprintf("transaction failed on chain: %v", status.Err), nil)
			}
			if s.commitmentReached(status.ConfirmationStatus) {
				return status.Slot, nil
			}
		}

		if time.Now().After(deadline) {
			return 0, newError(CodeConfirmationFailed,
				fmt.Sprintf("transaction %s not confirmed within %s (valid until height %d)",
					signature, s.cfg.ConfirmTimeout(), lastValidBlockHeight), nil)
		}

		select {
		case <-ctx.Done():
			return 0, newError(CodeConfirmationFailed, "confirmation wait cancelled", ctx.Err())
		case <-time.After(s.cfg.ConfirmPollInterval()):
		}
	}
}

func (s *Service) commitmentReached(status rpc.ConfirmationStatusType) bool {
	switch s.commitment {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentProcessed:
		return status == rpc.ConfirmationStatusProcessed ||
			status == rpc.ConfirmationStatusConfirmed ||
			status == rpc.ConfirmationStatusFinalized
	default:
		return status == rpc.ConfirmationStatusConfirmed ||
			status == rpc.ConfirmationStatusFinalized
	}
}

type transactionDetail struct {
	Slot      uint64
	BlockTime *int64
}

func (s *Service) transactionDetail(ctx context.Context, signature solana.Signature) (*transactionDetail, error) {
	maxVersion := uint64(0)
	out, err := s.client.GetTransaction(ctx, signature, &rpc.GetTransactionOpts{
		Commitment:                     s.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", signature, err)
	}
	if out == nil {
		return nil, fmt.Errorf("transaction %s not found", signature)
	}

	detail := &transactionDetail{Slot: out.Slot}
	if out.BlockTime != nil {
		blockTime := int64(*out.BlockTime)
		detail.BlockTime = &blockTime
	}
	return detail, nil
}
