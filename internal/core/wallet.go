package core

import (
	"context"
	"errors"
	"time"

	"github.com/lightningnetwork/lnd/lnwire"
)

var (
	ErrNoLsp        = errors.New("no LSP configured")
	ErrNotSupported = errors.New("not yet supported")
)

// Wallet is the backend every shell command talks to. Calls are synchronous
// and may block on network I/O.
type Wallet interface {
	NodeInfo(ctx context.Context) (*NodeState, error)
	LspID(ctx context.Context) (string, error)
	FetchLspInfo(ctx context.Context, id string) (*LspInformation, error)

	ReceiveOnchain(ctx context.Context) (*SwapInfo, error)
	// InProgressSwap returns nil without error when no swap is in progress.
	InProgressSwap(ctx context.Context) (*SwapInfo, error)
	ListRefundables(ctx context.Context) ([]SwapInfo, error)

	ReceivePayment(ctx context.Context, amount lnwire.MilliSatoshi, memo string) (*Invoice, error)
	SendPayment(ctx context.Context, bolt11 string, amount *lnwire.MilliSatoshi) (*Payment, error)
	SendSpontaneousPayment(ctx context.Context, nodeID string, amount lnwire.MilliSatoshi) (*Payment, error)
	ListPayments(ctx context.Context, filter PaymentTypeFilter, from, to time.Time) ([]Payment, error)

	ParseInput(ctx context.Context, input string) (InputType, error)
	WithdrawLnurl(ctx context.Context, data LnURLWithdrawRequestData, amount lnwire.MilliSatoshi, description string) (LnURLWithdrawResult, error)
	PayLnurl(ctx context.Context, data LnURLPayRequestData, amount lnwire.MilliSatoshi, comment string) (LnURLPayResult, error)

	Close() error
}

// PaymentFailedError is a payment the node attempted and could not complete.
type PaymentFailedError struct {
	PaymentHash string
	Reason      string
}

func (e *PaymentFailedError) Error() string {
	return "payment failed: " + e.Reason
}
