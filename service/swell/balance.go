package swell

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"github.com/RITTUVIK/Swell-Bible/domain"
)

// Balance reads the owner's SWELL balance. An owner whose token account
// was never created gets a zero balance with AccountExists false; that is
// an ordinary outcome, not an error. The decimal conversion always goes
// through the mint cache, never a hardcoded precision.
func (s *Service) Balance(ctx context.Context, owner solana.PublicKey) (*domain.TokenBalance, error) {
	address, err := s.TokenAccountAddress(owner)
	if err != nil {
		return nil, newError(CodeUnknown, "failed to derive token account address", err)
	}

	decimals, err := s.mints.Decimals(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: s.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return &domain.TokenBalance{
				Amount:        decimal.Zero,
				RawAmount:     0,
				Account:       address,
				AccountExists: false,
			}, nil
		}
		return nil, newError(CodeNetworkError,
			fmt.Sprintf("failed to read token account %s", address), err)
	}
	if out == nil || out.Value == nil {
		return &domain.TokenBalance{
			Amount:        decimal.Zero,
			RawAmount:     0,
			Account:       address,
			AccountExists: false,
		}, nil
	}

	data := out.Value.Data.GetBinary()
	var account token.Account
	if err = bin.NewBinDecoder(data).Decode(&account); err != nil {
		return nil, newError(CodeNetworkError,
			fmt.Sprintf("failed to decode token account %s", address), err)
	}

	return &domain.TokenBalance{
		Amount:        FromRawAmount(account.Amount, decimals),
		RawAmount:     account.Amount,
		Account:       address,
		AccountExists: true,
	}, nil
}
