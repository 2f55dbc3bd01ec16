package lnd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/internal/lnurl"
	"github.com/sandevgo/lnshell/pkg/log"
)

// WithdrawLnurl creates an invoice for amount and hands it to the withdraw
// service. The service pays it asynchronously.
func (w *Wallet) WithdrawLnurl(
	ctx context.Context,
	data core.LnURLWithdrawRequestData,
	amount lnwire.MilliSatoshi,
	description string,
) (core.LnURLWithdrawResult, error) {
	if w.lnurl == nil {
		return nil, errors.New("lnurl is not available")
	}

	if description == "" {
		description = data.DefaultDescription
	}

	inv, err := w.ReceivePayment(ctx, amount, description)
	if err != nil {
		return nil, err
	}

	if err := w.lnurl.Withdraw(ctx, data, inv.Bolt11); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("domain", data.Domain).Msg("lnurl withdraw refused")
		return core.WithdrawError{Reason: reason(err)}, nil
	}
	return core.WithdrawOk{Invoice: *inv}, nil
}

// PayLnurl fetches an invoice for amount from the pay service and pays it.
func (w *Wallet) PayLnurl(
	ctx context.Context,
	data core.LnURLPayRequestData,
	amount lnwire.MilliSatoshi,
	comment string,
) (core.LnURLPayResult, error) {
	if w.lnurl == nil {
		return nil, errors.New("lnurl is not available")
	}

	pr, action, err := w.lnurl.RequestInvoice(ctx, data, amount, comment)
	if err != nil {
		var svcErr *lnurl.ServiceError
		if errors.As(err, &svcErr) {
			return core.PayEndpointError{Reason: svcErr.Reason}, nil
		}
		return nil, fmt.Errorf("failed to request invoice from %s: %w", data.Domain, err)
	}

	inv, err := w.decodeInvoice(pr)
	if err != nil {
		return core.PayEndpointError{Reason: err.Error()}, nil
	}
	if inv.AmountMsat != amount {
		return core.PayEndpointError{
			Reason: fmt.Sprintf("service returned an invoice for %d msat instead of %d msat", inv.AmountMsat, amount),
		}, nil
	}
	metadataHash := sha256.Sum256([]byte(data.MetadataStr))
	if inv.DescriptionHash != hex.EncodeToString(metadataHash[:]) {
		return core.PayEndpointError{Reason: "invoice description hash does not match metadata"}, nil
	}

	payment, err := w.SendPayment(ctx, inv.Bolt11, nil)
	if err != nil {
		var failed *core.PaymentFailedError
		if errors.As(err, &failed) {
			return core.PayError{PaymentHash: failed.PaymentHash, Reason: failed.Reason}, nil
		}
		return core.PayError{PaymentHash: inv.PaymentHash, Reason: err.Error()}, nil
	}
	return core.PayEndpointSuccess{Payment: *payment, SuccessAction: action}, nil
}

func reason(err error) string {
	var svcErr *lnurl.ServiceError
	if errors.As(err, &svcErr) && svcErr.Reason != "" {
		return svcErr.Reason
	}
	return err.Error()
}
