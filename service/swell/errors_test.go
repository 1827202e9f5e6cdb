package swell

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Classify(nil))
	})

	t.Run("typed errors pass through unchanged", func(t *testing.T) {
		original := newError(CodeInsufficientBalance, "not enough", nil)
		classified := Classify(fmt.Errorf("transfer: %w", original))
		assert.Same(t, original, classified)
	})

	t.Run("structured rpc error message wins over wrapper text", func(t *testing.T) {
		rpcErr := &jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed: insufficient lamports"}
		classified := Classify(fmt.Errorf("sendTransaction: %w", rpcErr))
		assert.Equal(t, CodeInsufficientSOL, classified.Code)
	})

	t.Run("message substrings", func(t *testing.T) {
		cases := []struct {
			message string
			want    Code
		}{
			{"Attempt to debit an account but found insufficient funds", CodeInsufficientSOL},
			{"insufficient lamports 100, need 2039280", CodeInsufficientSOL},
			{"Blockhash not found", CodeConfirmationFailed},
			{"block height exceeded", CodeConfirmationFailed},
			{"transaction expired", CodeConfirmationFailed},
			{"connection refused", CodeNetworkError},
			{"context deadline exceeded", CodeNetworkError},
		}
		for _, tc := range cases {
			t.Run(tc.message, func(t *testing.T) {
				classified := Classify(errors.New(tc.message))
				assert.Equal(t, tc.want, classified.Code)
			})
		}
	})

	t.Run("cause survives classification", func(t *testing.T) {
		cause := errors.New("blockhash not found")
		classified := Classify(cause)
		assert.ErrorIs(t, classified, cause)
	})
}

func TestCodeOf(t *testing.T) {
	err := newError(CodeSimulationFailed, "simulation reported error", nil)
	assert.Equal(t, CodeSimulationFailed, CodeOf(err))
	assert.Equal(t, CodeSimulationFailed, CodeOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
}

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("boom")
	err := newError(CodeNetworkError, "request failed", cause)

	require.ErrorContains(t, err, "NETWORK_ERROR")
	require.ErrorContains(t, err, "request failed")
	require.ErrorContains(t, err, "boom")
	assert.ErrorIs(t, err, cause)
}

func TestIsRejection(t *testing.T) {
	assert.True(t, isRejection(errors.New("User rejected the request")))
	assert.True(t, isRejection(errors.New("signing cancelled")))
	assert.True(t, isRejection(errors.New("permission denied by wallet")))
	assert.True(t, isRejection(errors.New("request declined")))
	assert.False(t, isRejection(errors.New("ledger device locked")))
	assert.False(t, isRejection(nil))
}
