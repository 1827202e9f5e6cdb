package swell

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ToRawAmount converts a human-readable amount into integer token units at
// the given precision. The amount must be positive and exactly
// representable: anything that would lose sub-unit precision is rejected
// instead of silently rounded, and the arithmetic stays in fixed point the
// whole way.
func ToRawAmount(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if !amount.IsPositive() {
		return 0, newError(CodeInvalidAmount, fmt.Sprintf("amount must be positive, got %s", amount), nil)
	}

	shifted := amount.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return 0, newError(CodeInvalidAmount,
			fmt.Sprintf("amount %s has more precision than the mint allows (%d decimals)", amount, decimals), nil)
	}

	raw := shifted.BigInt()
	if !raw.IsUint64() {
		return 0, newError(CodeInvalidAmount, fmt.Sprintf("amount %s overflows raw token units", amount), nil)
	}
	return raw.Uint64(), nil
}

// FromRawAmount converts integer token units back to the human-readable
// decimal value.
func FromRawAmount(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals))
}
