package lnd

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/sandevgo/lnshell/internal/config"
	"github.com/sandevgo/lnshell/internal/core"
	"google.golang.org/grpc"
)

// lightningClient is the part of lnrpc.LightningClient the wallet uses.
type lightningClient interface {
	GetInfo(ctx context.Context, in *lnrpc.GetInfoRequest, opts ...grpc.CallOption) (*lnrpc.GetInfoResponse, error)
	ChannelBalance(ctx context.Context, in *lnrpc.ChannelBalanceRequest, opts ...grpc.CallOption) (*lnrpc.ChannelBalanceResponse, error)
	WalletBalance(ctx context.Context, in *lnrpc.WalletBalanceRequest, opts ...grpc.CallOption) (*lnrpc.WalletBalanceResponse, error)
	ListPeers(ctx context.Context, in *lnrpc.ListPeersRequest, opts ...grpc.CallOption) (*lnrpc.ListPeersResponse, error)
	ConnectPeer(ctx context.Context, in *lnrpc.ConnectPeerRequest, opts ...grpc.CallOption) (*lnrpc.ConnectPeerResponse, error)
	GetNodeInfo(ctx context.Context, in *lnrpc.NodeInfoRequest, opts ...grpc.CallOption) (*lnrpc.NodeInfo, error)
	NewAddress(ctx context.Context, in *lnrpc.NewAddressRequest, opts ...grpc.CallOption) (*lnrpc.NewAddressResponse, error)
	ListUnspent(ctx context.Context, in *lnrpc.ListUnspentRequest, opts ...grpc.CallOption) (*lnrpc.ListUnspentResponse, error)
	AddInvoice(ctx context.Context, in *lnrpc.Invoice, opts ...grpc.CallOption) (*lnrpc.AddInvoiceResponse, error)
	ListInvoices(ctx context.Context, in *lnrpc.ListInvoiceRequest, opts ...grpc.CallOption) (*lnrpc.ListInvoiceResponse, error)
	SendPaymentSync(ctx context.Context, in *lnrpc.SendRequest, opts ...grpc.CallOption) (*lnrpc.SendResponse, error)
	ListPayments(ctx context.Context, in *lnrpc.ListPaymentsRequest, opts ...grpc.CallOption) (*lnrpc.ListPaymentsResponse, error)
}

// LnURLClient speaks the LNURL protocol on behalf of the wallet.
type LnURLClient interface {
	Resolve(ctx context.Context, input string) (core.InputType, error)
	Withdraw(ctx context.Context, data core.LnURLWithdrawRequestData, bolt11 string) error
	RequestInvoice(ctx context.Context, data core.LnURLPayRequestData, amount lnwire.MilliSatoshi, comment string) (string, core.SuccessAction, error)
}

type Options struct {
	Network *chaincfg.Params
	Swap    *config.SwapConfig
	// Invite is the LSP node URI, pubkey@host:port. Empty means no LSP.
	Invite string
}

// Wallet implements core.Wallet on top of an lnd node.
type Wallet struct {
	ln     lightningClient
	conn   io.Closer
	lnurl  LnURLClient
	swaps  core.SwapRepository
	net    *chaincfg.Params
	swap   config.SwapConfig
	lsp    *lspNode
	now    func() time.Time
	random io.Reader
}

var _ core.Wallet = (*Wallet)(nil)

func New(conn *grpc.ClientConn, lnurl LnURLClient, swaps core.SwapRepository, opts Options) (*Wallet, error) {
	w, err := newWallet(lnrpc.NewLightningClient(conn), lnurl, swaps, opts)
	if err != nil {
		return nil, err
	}
	w.conn = conn
	return w, nil
}

func newWallet(ln lightningClient, lnurl LnURLClient, swaps core.SwapRepository, opts Options) (*Wallet, error) {
	w := &Wallet{
		ln:     ln,
		lnurl:  lnurl,
		swaps:  swaps,
		net:    opts.Network,
		now:    time.Now,
		random: cryptoRand,
	}
	if w.net == nil {
		w.net = &chaincfg.MainNetParams
	}
	if opts.Swap != nil {
		w.swap = *opts.Swap
	}
	if opts.Invite != "" {
		lsp, err := parseLspNode(opts.Invite)
		if err != nil {
			return nil, err
		}
		w.lsp = lsp
	}
	return w, nil
}

func (w *Wallet) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}

type lspNode struct {
	Pubkey string
	Host   string
}

func parseLspNode(uri string) (*lspNode, error) {
	pubkey, host, ok := strings.Cut(strings.TrimSpace(uri), "@")
	if !ok || host == "" {
		return nil, fmt.Errorf("invalid invite_code %q: expected pubkey@host:port", uri)
	}
	if !isNodeID(pubkey) {
		return nil, fmt.Errorf("invalid invite_code: %q is not a node public key", pubkey)
	}
	return &lspNode{Pubkey: strings.ToLower(pubkey), Host: host}, nil
}

// isNodeID reports whether s is a hex encoded compressed public key.
func isNodeID(s string) bool {
	if len(s) != 66 || (s[:2] != "02" && s[:2] != "03") {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
