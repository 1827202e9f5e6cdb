package swell

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"

	"github.com/RITTUVIK/Swell-Bible/config"
	"github.com/RITTUVIK/Swell-Bible/domain"
)

// fakeChainClient implements ChainClient with per-method hooks and call
// counters. Nil hooks fall back to a healthy default so each test only
// overrides what it cares about.
type fakeChainClient struct {
	mu sync.Mutex

	accountInfoFn func(account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	blockhashFn   func() (*rpc.GetLatestBlockhashResult, error)
	simulateFn    func(tx *solana.Transaction) (*rpc.SimulateTransactionResponse, error)
	sendFn        func(tx *solana.Transaction) (solana.Signature, error)
	statusesFn    func(signatures []solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	transactionFn func(signature solana.Signature) (*rpc.GetTransactionResult, error)

	accountInfoCalls int
	blockhashCalls   int
	simulateCalls    int
	sendCalls        int
	statusesCalls    int
	transactionCalls int

	sentTransactions []*solana.Transaction
}

func (f *fakeChainClient) GetAccountInfoWithOpts(_ context.Context, account solana.PublicKey, _ *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	f.mu.Lock()
	f.accountInfoCalls++
	fn := f.accountInfoFn
	f.mu.Unlock()

	if fn == nil {
		return nil, rpc.ErrNotFound
	}
	return fn(account)
}

func (f *fakeChainClient) GetLatestBlockhash(_ context.Context, _ rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	f.mu.Lock()
	f.blockhashCalls++
	fn := f.blockhashFn
	f.mu.Unlock()

	if fn == nil {
		return &rpc.GetLatestBlockhashResult{
			Value: &rpc.LatestBlockhashResult{
				Blockhash:            solana.Hash{1, 2, 3},
				LastValidBlockHeight: 1000,
			},
		}, nil
	}
	return fn()
}

func (f *fakeChainClient) SimulateTransactionWithOpts(_ context.Context, tx *solana.Transaction, _ *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error) {
	f.mu.Lock()
	f.simulateCalls++
	fn := f.simulateFn
	f.mu.Unlock()

	if fn == nil {
		return &rpc.SimulateTransactionResponse{
			Value: &rpc.SimulateTransactionResult{},
		}, nil
	}
	return fn(tx)
}

func (f *fakeChainClient) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, _ rpc.TransactionOpts) (solana.Signature, error) {
	f.mu.Lock()
	f.sendCalls++
	f.sentTransactions = append(f.sentTransactions, tx)
	fn := f.sendFn
	f.mu.Unlock()

	if fn == nil {
		return solana.Signature{9, 9, 9}, nil
	}
	return fn(tx)
}

func (f *fakeChainClient) GetSignatureStatuses(_ context.Context, _ bool, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	f.mu.Lock()
	f.statusesCalls++
	fn := f.statusesFn
	f.mu.Unlock()

	if fn == nil {
		return &rpc.GetSignatureStatusesResult{
			Value: []*rpc.SignatureStatusesResult{
				{
					Slot:               4242,
					ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
				},
			},
		}, nil
	}
	return fn(signatures)
}

func (f *fakeChainClient) GetTransaction(_ context.Context, signature solana.Signature, _ *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error) {
	f.mu.Lock()
	f.transactionCalls++
	fn := f.transactionFn
	f.mu.Unlock()

	if fn == nil {
		blockTime := solana.UnixTimeSeconds(1_700_000_000)
		return &rpc.GetTransactionResult{
			Slot:      4242,
			BlockTime: &blockTime,
		}, nil
	}
	return fn(signature)
}

func (f *fakeChainClient) calls() (accountInfo, blockhash, simulate, send int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accountInfoCalls, f.blockhashCalls, f.simulateCalls, f.sendCalls
}

func (f *fakeChainClient) lastSent() *solana.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sentTransactions) == 0 {
		return nil
	}
	return f.sentTransactions[len(f.sentTransactions)-1]
}

// accountInfoResult wraps raw account bytes the way the RPC layer delivers
// them, as a base64 data tuple.
func accountInfoResult(t *testing.T, data []byte) *rpc.GetAccountInfoResult {
	t.Helper()

	tuple, err := json.Marshal([]string{base64.StdEncoding.EncodeToString(data), "base64"})
	require.NoError(t, err)

	var payload rpc.DataBytesOrJSON
	require.NoError(t, json.Unmarshal(tuple, &payload))

	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{
			Owner: solana.TokenProgramID,
			Data:  &payload,
		},
	}
}

// mintAccountData serializes an initialized SPL mint with the given
// precision. Every COption carries tag 1 so the layout is unambiguous.
func mintAccountData(decimals uint8) []byte {
	authority := solana.NewWallet().PublicKey()

	buf := make([]byte, 82)
	binary.LittleEndian.PutUint32(buf[0:4], 1)
	copy(buf[4:36], authority[:])
	binary.LittleEndian.PutUint64(buf[36:44], 1_000_000_000)
	buf[44] = decimals
	buf[45] = 1 // initialized
	binary.LittleEndian.PutUint32(buf[46:50], 1)
	copy(buf[50:82], authority[:])
	return buf
}

// tokenAccountData serializes an initialized SPL token account holding the
// given raw amount.
func tokenAccountData(mint, owner solana.PublicKey, amount uint64) []byte {
	delegate := solana.NewWallet().PublicKey()

	buf := make([]byte, 165)
	copy(buf[0:32], mint[:])
	copy(buf[32:64], owner[:])
	binary.LittleEndian.PutUint64(buf[64:72], amount)
	binary.LittleEndian.PutUint32(buf[72:76], 1)
	copy(buf[76:108], delegate[:])
	buf[108] = 1 // initialized
	binary.LittleEndian.PutUint32(buf[109:113], 1)
	binary.LittleEndian.PutUint64(buf[113:121], 0)
	binary.LittleEndian.PutUint64(buf[121:129], 0)
	binary.LittleEndian.PutUint32(buf[129:133], 1)
	copy(buf[133:165], delegate[:])
	return buf
}

func testConfig(t *testing.T, mint solana.PublicKey) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Cluster:          config.ClusterDevnet,
		RPCURL:           "http://127.0.0.1:8899",
		Commitment:       string(rpc.CommitmentConfirmed),
		Mint:             mint.String(),
		ComputeUnitLimit: 200_000,
		ConfirmTimeoutMS: 500,
		ConfirmPollMS:    5,
		ExplorerBase:     "https://explorer.solana.com",
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

// countingSigner wraps a real signer and records whether it was asked to
// sign.
type countingSigner struct {
	inner domain.Signer

	mu    sync.Mutex
	calls int
}

func (c *countingSigner) PublicKey() solana.PublicKey {
	return c.inner.PublicKey()
}

func (c *countingSigner) SignMessage(ctx context.Context, message []byte) (solana.Signature, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.SignMessage(ctx, message)
}

func (c *countingSigner) signCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// rejectingSigner refuses every request, the way a wallet user hitting
// "cancel" does.
type rejectingSigner struct {
	key solana.PrivateKey
}

func (r *rejectingSigner) PublicKey() solana.PublicKey {
	return r.key.PublicKey()
}

func (r *rejectingSigner) SignMessage(context.Context, []byte) (solana.Signature, error) {
	return solana.Signature{}, errUserRejectedRequest
}

var errUserRejectedRequest = &stubError{"user rejected the request"}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }
