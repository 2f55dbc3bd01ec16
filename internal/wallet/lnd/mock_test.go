package lnd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/sandevgo/lnshell/internal/config"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

const (
	testLspPubkey = "02eec7245d6b7d2ccb30380bfbe2a3648cd7a942653f5aa340edcea1f283686619"
	testNodeID    = "03a6ce61fcaacd38d31d4e3ce2d506602818e3856b4b44faff1dde9642ba705976"
)

var (
	testNet            = &chaincfg.RegressionNetParams
	testPrivKeyBytes   = []byte("lnshell test key for signing ln!")
	testPrivKey, _     = btcec.PrivKeyFromBytes(testPrivKeyBytes)
	testInvoiceTime    = time.Unix(1700000000, 0)
	testPaymentHash    = [32]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	testPaymentHashHex = hex.EncodeToString(testPaymentHash[:])
)

// testInvoice returns a regtest bolt11 invoice signed by testPrivKey. A zero
// amount gives an amountless invoice.
func testInvoice(t *testing.T, amount lnwire.MilliSatoshi, description string) string {
	t.Helper()
	return signInvoice(t, amount, zpay32.Description(description))
}

// testHashedInvoice returns an invoice committing to metadata through the
// description hash, as LNURL-pay services issue them.
func testHashedInvoice(t *testing.T, amount lnwire.MilliSatoshi, metadata string) string {
	t.Helper()
	return signInvoice(t, amount, zpay32.DescriptionHash(sha256.Sum256([]byte(metadata))))
}

func signInvoice(t *testing.T, amount lnwire.MilliSatoshi, desc func(*zpay32.Invoice)) string {
	t.Helper()

	opts := []func(*zpay32.Invoice){
		desc,
		zpay32.PaymentAddr([32]byte{7}),
	}
	if amount > 0 {
		opts = append(opts, zpay32.Amount(amount))
	}

	inv, err := zpay32.NewInvoice(testNet, testPaymentHash, testInvoiceTime, opts...)
	require.NoError(t, err)

	encoded, err := inv.Encode(zpay32.MessageSigner{
		SignCompact: func(msg []byte) ([]byte, error) {
			return ecdsa.SignCompact(testPrivKey, chainhash.HashB(msg), true), nil
		},
	})
	require.NoError(t, err)
	return encoded
}

type mockLightning struct {
	err error

	info           *lnrpc.GetInfoResponse
	channelBalance *lnrpc.ChannelBalanceResponse
	walletBalance  *lnrpc.WalletBalanceResponse
	peers          *lnrpc.ListPeersResponse
	nodeInfo       *lnrpc.NodeInfo

	connectErr  error
	connectReqs []*lnrpc.ConnectPeerRequest

	addresses   []string
	addressReqs int
	utxos       []*lnrpc.Utxo

	addInvoiceResp *lnrpc.AddInvoiceResponse
	invoiceReqs    []*lnrpc.Invoice

	sendResp *lnrpc.SendResponse
	sendErr  error
	sendReqs []*lnrpc.SendRequest

	payments    []*lnrpc.Payment
	invoices    []*lnrpc.Invoice
	paymentReqs []*lnrpc.ListPaymentsRequest
	invoiceList []*lnrpc.ListInvoiceRequest
}

func (m *mockLightning) GetInfo(context.Context, *lnrpc.GetInfoRequest, ...grpc.CallOption) (*lnrpc.GetInfoResponse, error) {
	return m.info, m.err
}

func (m *mockLightning) ChannelBalance(context.Context, *lnrpc.ChannelBalanceRequest, ...grpc.CallOption) (*lnrpc.ChannelBalanceResponse, error) {
	return m.channelBalance, m.err
}

func (m *mockLightning) WalletBalance(context.Context, *lnrpc.WalletBalanceRequest, ...grpc.CallOption) (*lnrpc.WalletBalanceResponse, error) {
	return m.walletBalance, m.err
}

func (m *mockLightning) ListPeers(context.Context, *lnrpc.ListPeersRequest, ...grpc.CallOption) (*lnrpc.ListPeersResponse, error) {
	if m.peers == nil {
		return &lnrpc.ListPeersResponse{}, m.err
	}
	return m.peers, m.err
}

func (m *mockLightning) ConnectPeer(_ context.Context, in *lnrpc.ConnectPeerRequest, _ ...grpc.CallOption) (*lnrpc.ConnectPeerResponse, error) {
	m.connectReqs = append(m.connectReqs, in)
	return &lnrpc.ConnectPeerResponse{}, m.connectErr
}

func (m *mockLightning) GetNodeInfo(context.Context, *lnrpc.NodeInfoRequest, ...grpc.CallOption) (*lnrpc.NodeInfo, error) {
	return m.nodeInfo, m.err
}

func (m *mockLightning) NewAddress(context.Context, *lnrpc.NewAddressRequest, ...grpc.CallOption) (*lnrpc.NewAddressResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	addr := m.addresses[m.addressReqs]
	m.addressReqs++
	return &lnrpc.NewAddressResponse{Address: addr}, nil
}

func (m *mockLightning) ListUnspent(context.Context, *lnrpc.ListUnspentRequest, ...grpc.CallOption) (*lnrpc.ListUnspentResponse, error) {
	return &lnrpc.ListUnspentResponse{Utxos: m.utxos}, m.err
}

func (m *mockLightning) AddInvoice(_ context.Context, in *lnrpc.Invoice, _ ...grpc.CallOption) (*lnrpc.AddInvoiceResponse, error) {
	m.invoiceReqs = append(m.invoiceReqs, in)
	return m.addInvoiceResp, m.err
}

func (m *mockLightning) ListInvoices(_ context.Context, in *lnrpc.ListInvoiceRequest, _ ...grpc.CallOption) (*lnrpc.ListInvoiceResponse, error) {
	m.invoiceList = append(m.invoiceList, in)
	return &lnrpc.ListInvoiceResponse{Invoices: m.invoices}, m.err
}

func (m *mockLightning) SendPaymentSync(_ context.Context, in *lnrpc.SendRequest, _ ...grpc.CallOption) (*lnrpc.SendResponse, error) {
	m.sendReqs = append(m.sendReqs, in)
	return m.sendResp, m.sendErr
}

func (m *mockLightning) ListPayments(_ context.Context, in *lnrpc.ListPaymentsRequest, _ ...grpc.CallOption) (*lnrpc.ListPaymentsResponse, error) {
	m.paymentReqs = append(m.paymentReqs, in)
	return &lnrpc.ListPaymentsResponse{Payments: m.payments}, m.err
}

type mockLnURL struct {
	resolved core.InputType
	resolves []string

	withdrawErr error
	withdrawn   []string

	pr          string
	action      core.SuccessAction
	requestErr  error
	requested   []lnwire.MilliSatoshi
	commentSent []string
}

func (m *mockLnURL) Resolve(_ context.Context, input string) (core.InputType, error) {
	m.resolves = append(m.resolves, input)
	return m.resolved, nil
}

func (m *mockLnURL) Withdraw(_ context.Context, _ core.LnURLWithdrawRequestData, bolt11 string) error {
	m.withdrawn = append(m.withdrawn, bolt11)
	return m.withdrawErr
}

func (m *mockLnURL) RequestInvoice(_ context.Context, _ core.LnURLPayRequestData, amount lnwire.MilliSatoshi, comment string) (string, core.SuccessAction, error) {
	m.requested = append(m.requested, amount)
	m.commentSent = append(m.commentSent, comment)
	return m.pr, m.action, m.requestErr
}

type memorySwapRepo struct {
	swaps   map[string]core.SwapInfo
	updates int
}

func newMemorySwapRepo() *memorySwapRepo {
	return &memorySwapRepo{swaps: make(map[string]core.SwapInfo)}
}

func (r *memorySwapRepo) SaveSwap(_ context.Context, swap core.SwapInfo) error {
	r.swaps[swap.BitcoinAddress] = swap
	return nil
}

func (r *memorySwapRepo) UpdateSwap(_ context.Context, swap core.SwapInfo) error {
	r.updates++
	r.swaps[swap.BitcoinAddress] = swap
	return nil
}

func (r *memorySwapRepo) ListSwaps(_ context.Context, statuses ...core.SwapStatus) ([]core.SwapInfo, error) {
	var out []core.SwapInfo
	for _, s := range r.swaps {
		if len(statuses) == 0 || containsStatus(statuses, s.Status) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func containsStatus(statuses []core.SwapStatus, s core.SwapStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

type fixture struct {
	wallet *Wallet
	ln     *mockLightning
	lnurl  *mockLnURL
	swaps  *memorySwapRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ln:    &mockLightning{},
		lnurl: &mockLnURL{},
		swaps: newMemorySwapRepo(),
	}
	w, err := newWallet(f.ln, f.lnurl, f.swaps, Options{
		Network: testNet,
		Swap:    &config.SwapConfig{MinDepositSat: 1000, MaxDepositSat: 100000},
		Invite:  testLspPubkey + "@lsp.example.com:9735",
	})
	require.NoError(t, err)

	clock := testInvoiceTime
	w.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	f.wallet = w
	return f
}
