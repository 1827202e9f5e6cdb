package swell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// Code is the closed set of failure categories the token core surfaces.
// Callers switch on Code; everything else about an Error is diagnostics.
type Code string

const (
	CodeInsufficientBalance   Code = "INSUFFICIENT_BALANCE"
	CodeInsufficientSOL       Code = "INSUFFICIENT_SOL"
	CodeInvalidRecipient      Code = "INVALID_RECIPIENT"
	CodeInvalidAmount         Code = "INVALID_AMOUNT"
	CodeSimulationFailed      Code = "SIMULATION_FAILED"
	CodeConfirmationFailed    Code = "CONFIRMATION_FAILED"
	CodeUserRejected          Code = "USER_REJECTED"
	CodeNetworkError          Code = "NETWORK_ERROR"
	CodeAccountCreationFailed Code = "ACCOUNT_CREATION_FAILED"
	CodeMintFetchFailed       Code = "MINT_FETCH_FAILED"
	CodeUnknown               Code = "UNKNOWN"
)

// Error is the single error type crossing the public surface of the core.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the taxonomy code from any error, CodeUnknown when the
// error did not come from this package.
func CodeOf(err error) Code {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return CodeUnknown
}

// Classify maps a raw failure onto the taxonomy. Already-typed errors pass
// through unchanged. Structured RPC errors are inspected first; after that
// only substring matching on the message remains, which is best effort: an
// upstream wording change degrades the result to NETWORK_ERROR, it never
// misfiles a success.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return classifyMessage(rpcErr.Message, err)
	}

	return classifyMessage(err.Error(), err)
}

func classifyMessage(message string, cause error) *Error {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "insufficient funds") ||
		strings.Contains(lower, "insufficient lamports"):
		return newError(CodeInsufficientSOL, "not enough SOL to pay network fees", cause)
	case strings.Contains(lower, "blockhash not found") ||
		strings.Contains(lower, "block height exceeded") ||
		strings.Contains(lower, "expired"):
		return newError(CodeConfirmationFailed, "transaction expired before confirmation", cause)
	default:
		return newError(CodeNetworkError, "network request failed", cause)
	}
}

// isRejection spots a signer declining to sign. Wallets report rejection
// as free text, so wording heuristics are the only available signal.
func isRejection(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	for _, marker := range []string{"reject", "cancel", "denied", "declined"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
