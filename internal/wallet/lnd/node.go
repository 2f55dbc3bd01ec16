package lnd

import (
	"context"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/pkg/log"
)

func (w *Wallet) NodeInfo(ctx context.Context) (*core.NodeState, error) {
	info, err := w.ln.GetInfo(ctx, &lnrpc.GetInfoRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to get node info: %w", err)
	}

	channels, err := w.ln.ChannelBalance(ctx, &lnrpc.ChannelBalanceRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to get channel balance: %w", err)
	}

	onchain, err := w.ln.WalletBalance(ctx, &lnrpc.WalletBalanceRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet balance: %w", err)
	}

	peers, err := w.ln.ListPeers(ctx, &lnrpc.ListPeersRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list peers: %w", err)
	}

	state := &core.NodeState{
		ID:                 info.IdentityPubkey,
		Alias:              info.Alias,
		Version:            info.Version,
		BlockHeight:        info.BlockHeight,
		SyncedToChain:      info.SyncedToChain,
		NumActiveChannels:  info.NumActiveChannels,
		OnchainBalanceMsat: lnwire.NewMSatFromSatoshis(btcutil.Amount(onchain.TotalBalance)),
	}
	if channels.LocalBalance != nil {
		state.ChannelsBalanceMsat = lnwire.MilliSatoshi(channels.LocalBalance.Msat)
	}
	for _, p := range peers.Peers {
		state.ConnectedPeers = append(state.ConnectedPeers, p.PubKey)
	}
	return state, nil
}

func (w *Wallet) LspID(_ context.Context) (string, error) {
	if w.lsp == nil {
		return "", core.ErrNoLsp
	}
	return w.lsp.Pubkey, nil
}

func (w *Wallet) FetchLspInfo(ctx context.Context, id string) (*core.LspInformation, error) {
	resp, err := w.ln.GetNodeInfo(ctx, &lnrpc.NodeInfoRequest{PubKey: id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch LSP %s: %w", id, err)
	}

	lsp := &core.LspInformation{
		ID:            id,
		NumChannels:   resp.NumChannels,
		TotalCapacity: btcutil.Amount(resp.TotalCapacity),
	}
	if node := resp.Node; node != nil {
		lsp.Name = node.Alias
		lsp.Color = node.Color
		for _, a := range node.Addresses {
			lsp.Addresses = append(lsp.Addresses, a.Addr)
		}
	}

	switch {
	case w.lsp != nil && strings.EqualFold(w.lsp.Pubkey, id):
		lsp.Host = w.lsp.Host
	case len(lsp.Addresses) > 0:
		lsp.Host = lsp.Addresses[0]
	}
	return lsp, nil
}

// ConnectLsp opens a permanent peer connection to the LSP from the invite.
func (w *Wallet) ConnectLsp(ctx context.Context) error {
	if w.lsp == nil {
		return core.ErrNoLsp
	}

	_, err := w.ln.ConnectPeer(ctx, &lnrpc.ConnectPeerRequest{
		Addr: &lnrpc.LightningAddress{
			Pubkey: w.lsp.Pubkey,
			Host:   w.lsp.Host,
		},
		Perm: true,
	})
	if err != nil && !strings.Contains(err.Error(), "already connected") {
		return fmt.Errorf("failed to connect to LSP %s: %w", w.lsp.Host, err)
	}

	log.FromCtx(ctx).Debug().Str("lsp", w.lsp.Pubkey).Msg("connected to LSP")
	return nil
}
