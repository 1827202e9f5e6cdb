package solrpc

import "time"

const (
	HealthOk      = "ok"
	HealthBehind  = "behind"
	HealthUnknown = "unknown"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRetryCount     = 0
)

// RPCError is the error object of a JSON-RPC 2.0 response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type GetHealthResponse struct {
	Jsonrpc string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Error   *RPCError `json:"error,omitempty"`
	Result  string    `json:"result"`
}

type GetSlotRequest struct {
	Commitment string `json:"commitment,omitempty"`
}

type GetSlotResponse struct {
	Jsonrpc string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Error   *RPCError `json:"error,omitempty"`
	Result  uint64    `json:"result"`
}

// PrioritizationFee is one sample from getRecentPrioritizationFees:
// the per-compute-unit fee paid in slot Slot, in micro-lamports.
type PrioritizationFee struct {
	Slot              uint64 `json:"slot"`
	PrioritizationFee uint64 `json:"prioritizationFee"`
}

type getRecentPrioritizationFeesResponse struct {
	Jsonrpc string               `json:"jsonrpc"`
	ID      int                  `json:"id"`
	Error   *RPCError            `json:"error,omitempty"`
	Result  []*PrioritizationFee `json:"result"`
}
