package lnd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/record"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/pkg/log"
)

// Upper bound on settled invoices read for the history listing.
const maxListedInvoices = 10000

var cryptoRand = rand.Reader

func (w *Wallet) ReceivePayment(ctx context.Context, amount lnwire.MilliSatoshi, memo string) (*core.Invoice, error) {
	resp, err := w.ln.AddInvoice(ctx, &lnrpc.Invoice{
		Memo:      memo,
		ValueMsat: int64(amount),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	inv, err := w.decodeInvoice(resp.PaymentRequest)
	if err != nil {
		// The node issued it; report what we know.
		log.FromCtx(ctx).Warn().Err(err).Msg("could not decode own invoice")
		return &core.Invoice{
			Bolt11:      resp.PaymentRequest,
			PaymentHash: hex.EncodeToString(resp.RHash),
			Description: memo,
			AmountMsat:  amount,
			Timestamp:   w.now(),
		}, nil
	}
	return inv, nil
}

// SendPayment pays a bolt11 invoice. amount must be set for invoices that do
// not carry one, and must not be set otherwise.
func (w *Wallet) SendPayment(ctx context.Context, bolt11 string, amount *lnwire.MilliSatoshi) (*core.Payment, error) {
	inv, err := w.decodeInvoice(bolt11)
	if err != nil {
		return nil, err
	}

	req := &lnrpc.SendRequest{PaymentRequest: inv.Bolt11}
	total := inv.AmountMsat
	switch {
	case inv.AmountMsat == 0 && amount == nil:
		return nil, errors.New("invoice has no amount, one must be given")
	case inv.AmountMsat == 0:
		req.AmtMsat = int64(*amount)
		total = *amount
	case amount != nil && *amount != inv.AmountMsat:
		return nil, fmt.Errorf("invoice is for %d msat, cannot pay %d msat", inv.AmountMsat, *amount)
	}

	payment, err := w.sendSync(ctx, req, inv.PaymentHash)
	if err != nil {
		return nil, err
	}
	payment.AmountMsat = total
	payment.Description = inv.Description
	payment.Bolt11 = inv.Bolt11
	return payment, nil
}

// SendSpontaneousPayment sends a keysend payment: the preimage travels to the
// destination in a custom record instead of coming from an invoice.
func (w *Wallet) SendSpontaneousPayment(ctx context.Context, nodeID string, amount lnwire.MilliSatoshi) (*core.Payment, error) {
	if !isNodeID(nodeID) {
		return nil, fmt.Errorf("invalid node id %q", nodeID)
	}
	if amount == 0 {
		return nil, errors.New("amount must be positive")
	}
	dest, _ := hex.DecodeString(nodeID)

	var preimage lntypes.Preimage
	if _, err := w.random.Read(preimage[:]); err != nil {
		return nil, fmt.Errorf("failed to generate preimage: %w", err)
	}
	hash := preimage.Hash()

	payment, err := w.sendSync(ctx, &lnrpc.SendRequest{
		Dest:        dest,
		AmtMsat:     int64(amount),
		PaymentHash: hash[:],
		DestCustomRecords: map[uint64][]byte{
			record.KeySendType: preimage[:],
		},
	}, hash.String())
	if err != nil {
		return nil, err
	}
	payment.AmountMsat = amount
	return payment, nil
}

func (w *Wallet) sendSync(ctx context.Context, req *lnrpc.SendRequest, paymentHash string) (*core.Payment, error) {
	resp, err := w.ln.SendPaymentSync(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send payment: %w", err)
	}
	if resp.PaymentError != "" {
		return nil, &core.PaymentFailedError{PaymentHash: paymentHash, Reason: resp.PaymentError}
	}

	payment := &core.Payment{
		ID:       paymentHash,
		Type:     core.PaymentSent,
		Status:   core.PaymentComplete,
		Time:     w.now(),
		Preimage: hex.EncodeToString(resp.PaymentPreimage),
	}
	if len(resp.PaymentHash) > 0 {
		payment.ID = hex.EncodeToString(resp.PaymentHash)
	}
	if resp.PaymentRoute != nil {
		payment.FeeMsat = lnwire.MilliSatoshi(resp.PaymentRoute.TotalFeesMsat)
	}
	return payment, nil
}

// ListPayments merges outgoing payments and settled invoices created in
// [from, to], newest first. A zero bound is open.
func (w *Wallet) ListPayments(ctx context.Context, filter core.PaymentTypeFilter, from, to time.Time) ([]core.Payment, error) {
	start, end := unixBounds(from, to)
	var out []core.Payment

	if filter.Includes(core.PaymentSent) {
		resp, err := w.ln.ListPayments(ctx, &lnrpc.ListPaymentsRequest{
			IncludeIncomplete: true,
			CreationDateStart: start,
			CreationDateEnd:   end,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list payments: %w", err)
		}
		for _, p := range resp.Payments {
			out = append(out, w.sentPayment(p))
		}
	}

	if filter.Includes(core.PaymentReceived) {
		resp, err := w.ln.ListInvoices(ctx, &lnrpc.ListInvoiceRequest{
			NumMaxInvoices:    maxListedInvoices,
			CreationDateStart: start,
			CreationDateEnd:   end,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list invoices: %w", err)
		}
		for _, inv := range resp.Invoices {
			if inv.State != lnrpc.Invoice_SETTLED {
				continue
			}
			out = append(out, receivedPayment(inv))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.After(out[j].Time)
	})
	return out, nil
}

func (w *Wallet) sentPayment(p *lnrpc.Payment) core.Payment {
	payment := core.Payment{
		ID:         p.PaymentHash,
		Type:       core.PaymentSent,
		Time:       time.Unix(0, p.CreationTimeNs),
		AmountMsat: lnwire.MilliSatoshi(p.ValueMsat),
		FeeMsat:    lnwire.MilliSatoshi(p.FeeMsat),
		Bolt11:     p.PaymentRequest,
		Preimage:   p.PaymentPreimage,
	}

	switch p.Status {
	case lnrpc.Payment_SUCCEEDED:
		payment.Status = core.PaymentComplete
	case lnrpc.Payment_FAILED:
		payment.Status = core.PaymentFailed
	default:
		payment.Status = core.PaymentPending
	}

	if p.PaymentRequest != "" {
		if inv, err := w.decodeInvoice(p.PaymentRequest); err == nil {
			payment.Description = inv.Description
		}
	}
	return payment
}

func receivedPayment(inv *lnrpc.Invoice) core.Payment {
	return core.Payment{
		ID:          hex.EncodeToString(inv.RHash),
		Type:        core.PaymentReceived,
		Status:      core.PaymentComplete,
		Time:        time.Unix(inv.SettleDate, 0),
		AmountMsat:  lnwire.MilliSatoshi(inv.AmtPaidMsat),
		Description: inv.Memo,
		Bolt11:      inv.PaymentRequest,
		Preimage:    hex.EncodeToString(inv.RPreimage),
	}
}

func unixBounds(from, to time.Time) (uint64, uint64) {
	var start, end uint64
	if !from.IsZero() && from.Unix() > 0 {
		start = uint64(from.Unix())
	}
	if !to.IsZero() && to.Unix() > 0 {
		end = uint64(to.Unix())
	}
	return start, end
}

// decodeInvoice parses a bolt11 string for the wallet's network.
func (w *Wallet) decodeInvoice(bolt11 string) (*core.Invoice, error) {
	s := stripLightningPrefix(bolt11)
	decoded, err := zpay32.Decode(s, w.net)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice: %w", err)
	}

	inv := &core.Invoice{
		Bolt11:    s,
		Timestamp: decoded.Timestamp,
		Expiry:    decoded.Expiry(),
	}
	if decoded.PaymentHash != nil {
		inv.PaymentHash = hex.EncodeToString(decoded.PaymentHash[:])
	}
	if decoded.Destination != nil {
		inv.Destination = hex.EncodeToString(decoded.Destination.SerializeCompressed())
	}
	if decoded.Description != nil {
		inv.Description = *decoded.Description
	}
	if decoded.DescriptionHash != nil {
		inv.DescriptionHash = hex.EncodeToString(decoded.DescriptionHash[:])
	}
	if decoded.MilliSat != nil {
		inv.AmountMsat = *decoded.MilliSat
	}
	return inv, nil
}
