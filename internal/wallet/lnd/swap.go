package lnd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/pkg/log"
)

var errNoSwapStore = errors.New("swap ledger is not configured")

// ReceiveOnchain returns the swap in progress or hands out a new deposit
// address and records it.
func (w *Wallet) ReceiveOnchain(ctx context.Context) (*core.SwapInfo, error) {
	current, err := w.InProgressSwap(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return current, nil
	}

	resp, err := w.ln.NewAddress(ctx, &lnrpc.NewAddressRequest{
		Type: lnrpc.AddressType_WITNESS_PUBKEY_HASH,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create deposit address: %w", err)
	}

	swap := core.SwapInfo{
		BitcoinAddress:    resp.Address,
		Status:            core.SwapInitial,
		CreatedAt:         w.now().UTC(),
		MinAllowedDeposit: btcutil.Amount(w.swap.MinDepositSat),
		MaxAllowedDeposit: btcutil.Amount(w.swap.MaxDepositSat),
	}
	if err := w.swaps.SaveSwap(ctx, swap); err != nil {
		return nil, fmt.Errorf("failed to record swap: %w", err)
	}

	log.FromCtx(ctx).Info().Str("address", swap.BitcoinAddress).Msg("New deposit address")
	return &swap, nil
}

// InProgressSwap returns the newest swap that has not completed, or nil.
func (w *Wallet) InProgressSwap(ctx context.Context) (*core.SwapInfo, error) {
	swaps, err := w.refreshSwaps(ctx)
	if err != nil {
		return nil, err
	}
	for i := range swaps {
		switch swaps[i].Status {
		case core.SwapInitial, core.SwapWaitingConfirmation:
			return &swaps[i], nil
		}
	}
	return nil, nil
}

func (w *Wallet) ListRefundables(ctx context.Context) ([]core.SwapInfo, error) {
	if _, err := w.refreshSwaps(ctx); err != nil {
		return nil, err
	}
	swaps, err := w.swaps.ListSwaps(ctx, core.SwapRefundable)
	if err != nil {
		return nil, fmt.Errorf("failed to list refundable swaps: %w", err)
	}
	return swaps, nil
}

// refreshSwaps recomputes the status of every open or refundable swap from
// the node's UTXOs and returns them, newest first. Refundable swaps stay under
// watch so a deposit topped up into range still completes.
func (w *Wallet) refreshSwaps(ctx context.Context) ([]core.SwapInfo, error) {
	if w.swaps == nil {
		return nil, errNoSwapStore
	}

	open, err := w.swaps.ListSwaps(ctx, core.SwapInitial, core.SwapWaitingConfirmation, core.SwapRefundable)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}
	if len(open) == 0 {
		return nil, nil
	}

	resp, err := w.ln.ListUnspent(ctx, &lnrpc.ListUnspentRequest{
		MinConfs: 0,
		MaxConfs: math.MaxInt32,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list unspent outputs: %w", err)
	}

	byAddress := make(map[string][]*lnrpc.Utxo)
	for _, u := range resp.Utxos {
		byAddress[u.Address] = append(byAddress[u.Address], u)
	}

	for i := range open {
		updated := applyUtxos(open[i], byAddress[open[i].BitcoinAddress])
		if swapChanged(open[i], updated) {
			if err := w.swaps.UpdateSwap(ctx, updated); err != nil {
				return nil, fmt.Errorf("failed to update swap %s: %w", updated.BitcoinAddress, err)
			}
			log.FromCtx(ctx).Debug().
				Str("address", updated.BitcoinAddress).
				Str("status", string(updated.Status)).
				Msg("swap status changed")
		}
		open[i] = updated
	}
	return open, nil
}

// applyUtxos derives a swap's amounts and status from the UTXOs paying its
// address. Once a swap has seen funds, an empty UTXO set (the deposit was
// spent) leaves the last observation in place.
func applyUtxos(swap core.SwapInfo, utxos []*lnrpc.Utxo) core.SwapInfo {
	var (
		unconfirmed, confirmed btcutil.Amount
		txids                  []string
	)
	seen := make(map[string]bool)
	for _, u := range utxos {
		if u.Confirmations > 0 {
			confirmed += btcutil.Amount(u.AmountSat)
			if u.Outpoint != nil && !seen[u.Outpoint.TxidStr] {
				seen[u.Outpoint.TxidStr] = true
				txids = append(txids, u.Outpoint.TxidStr)
			}
		} else {
			unconfirmed += btcutil.Amount(u.AmountSat)
		}
	}

	total := unconfirmed + confirmed
	if total == 0 && swap.Status != core.SwapInitial {
		return swap
	}

	swap.UnconfirmedSats = unconfirmed
	swap.ConfirmedSats = confirmed
	swap.ConfirmedTxIDs = txids
	switch {
	case total == 0:
		swap.Status = core.SwapInitial
	case total < swap.MinAllowedDeposit || (swap.MaxAllowedDeposit > 0 && total > swap.MaxAllowedDeposit):
		swap.Status = core.SwapRefundable
	case unconfirmed > 0:
		swap.Status = core.SwapWaitingConfirmation
	default:
		swap.Status = core.SwapCompleted
	}
	return swap
}

func swapChanged(a, b core.SwapInfo) bool {
	return a.Status != b.Status ||
		a.UnconfirmedSats != b.UnconfirmedSats ||
		a.ConfirmedSats != b.ConfirmedSats ||
		!slices.Equal(a.ConfirmedTxIDs, b.ConfirmedTxIDs)
}
