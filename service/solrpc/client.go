package solrpc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-resty/resty/v2"
)

var errHTTPError = errors.New("solana rpc http error")

// Client issues the handful of raw JSON-RPC reads the SDK client does not
// surface cleanly: node health, slot, and recent prioritization fees.
type Client struct {
	client *resty.Client
}

func New(endpoint string) *Client {
	restyClient := resty.New()
	restyClient.SetBaseURL(endpoint)
	restyClient.SetTimeout(defaultRequestTimeout)
	restyClient.SetRetryCount(defaultRetryCount)
	return &Client{client: restyClient}
}

// NewWithClient wraps an already configured resty client, for tests and
// custom transports.
func NewWithClient(client *resty.Client) *Client {
	return &Client{client: client}
}

// GetHealth reports the node health as "ok", "behind" or "unknown". A node
// that lags the cluster answers with RPC error -32005 and is reported as
// behind rather than failed.
func (c *Client) GetHealth(ctx context.Context) (string, error) {
	requestBody := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getHealth",
		"params":  []interface{}{},
	}

	response := &GetHealthResponse{}
	httpResp, err := c.client.R().SetContext(ctx).
		SetBody(requestBody).
		SetResult(response).
		Post("/")
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	if httpResp.IsError() {
		return "", fmt.Errorf("failed to get health: %w", errHTTPError)
	}

	if response.Error != nil {
		if response.Error.Code == -32005 {
			return HealthBehind, nil
		}
		return HealthUnknown, fmt.Errorf("RPC error: code=%d, message=%s",
			response.Error.Code,
			response.Error.Message,
		)
	}

	if response.Result == "" {
		return HealthUnknown, fmt.Errorf("invalid response: empty result")
	}

	switch response.Result {
	case HealthOk, HealthBehind:
		return response.Result, nil
	default:
		return HealthUnknown, fmt.Errorf("unknown health status: %s", response.Result)
	}
}

// GetSlot returns the current slot at the given commitment level.
func (c *Client) GetSlot(ctx context.Context, commitment string) (uint64, error) {
	config := GetSlotRequest{
		Commitment: commitment,
	}

	requestBody := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getSlot",
		"params":  []interface{}{config},
	}

	response := &GetSlotResponse{}
	httpResp, err := c.client.R().SetContext(ctx).
		SetBody(requestBody).
		SetResult(response).
		Post("/")
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}

	if httpResp.IsError() {
		return 0, fmt.Errorf("failed to get slot: %w", errHTTPError)
	}

	if response.Error != nil {
		return 0, fmt.Errorf("RPC error: code=%d, message=%s",
			response.Error.Code,
			response.Error.Message,
		)
	}

	if response.Result == 0 {
		return 0, fmt.Errorf("invalid slot number: got 0")
	}

	return response.Result, nil
}

// GetRecentPrioritizationFees returns per-slot compute-unit fee samples
// from recent blocks.
func (c *Client) GetRecentPrioritizationFees(ctx context.Context) ([]*PrioritizationFee, error) {
	requestBody := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getRecentPrioritizationFees",
		"params":  []interface{}{},
	}

	resp := &getRecentPrioritizationFeesResponse{}
	httpResp, err := c.client.R().SetContext(ctx).
		SetBody(requestBody).
		SetResult(resp).
		Post("/")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if httpResp.IsError() {
		return nil, fmt.Errorf("failed to get prioritization fees: %w", errHTTPError)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("RPC error: code=%d, message=%s",
			resp.Error.Code,
			resp.Error.Message,
		)
	}
	if len(resp.Result) == 0 {
		return nil, errors.New("invalid response: empty prioritization fee data")
	}

	return resp.Result, nil
}

// SuggestedPriorityFee picks the 75th percentile of recent fee samples.
// Low outliers would make transactions miss inclusion, high ones waste
// lamports; the 75th percentile is a workable middle ground.
func SuggestedPriorityFee(fees []*PrioritizationFee) uint64 {
	if len(fees) == 0 {
		return 0
	}

	priorityFees := make([]uint64, len(fees))
	for i, fee := range fees {
		priorityFees[i] = fee.PrioritizationFee
	}

	sort.Slice(priorityFees, func(i, j int) bool {
		return priorityFees[i] < priorityFees[j]
	})

	index := int(float64(len(priorityFees)) * 0.75)
	if index >= len(priorityFees) {
		index = len(priorityFees) - 1
	}
	return priorityFees[index]
}
