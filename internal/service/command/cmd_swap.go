package command

import (
	"context"
	"fmt"
	"io"

	"github.com/sandevgo/lnshell/internal/core"
)

type DepositAddressCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewDepositAddressCommand(wallet core.Wallet) *DepositAddressCommand {
	return &DepositAddressCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *DepositAddressCommand) Name() string {
	return "get_deposit_address"
}

func (c *DepositAddressCommand) Description() string {
	return "Get a bitcoin address to deposit funds on-chain"
}

func (c *DepositAddressCommand) Usage() string {
	return "get_deposit_address"
}

func (c *DepositAddressCommand) Execute(ctx context.Context, _ string, out io.Writer) error {
	swap, err := c.wallet.ReceiveOnchain(ctx)
	if err != nil {
		return operationError("getting deposit address", err)
	}

	fmt.Fprint(out, c.formatter.Combine(
		c.formatter.Info("Deposit address"),
		c.formatter.Swap(swap),
	))
	return nil
}

type SwapProgressCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewSwapProgressCommand(wallet core.Wallet) *SwapProgressCommand {
	return &SwapProgressCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *SwapProgressCommand) Name() string {
	return "swap_progress"
}

func (c *SwapProgressCommand) Description() string {
	return "Show the deposit swap in progress"
}

func (c *SwapProgressCommand) Usage() string {
	return "swap_progress"
}

func (c *SwapProgressCommand) Execute(ctx context.Context, _ string, out io.Writer) error {
	swap, err := c.wallet.InProgressSwap(ctx)
	if err != nil {
		return operationError("getting swap progress", err)
	}

	fmt.Fprint(out, c.formatter.Swap(swap))
	return nil
}

type RefundablesCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewRefundablesCommand(wallet core.Wallet) *RefundablesCommand {
	return &RefundablesCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *RefundablesCommand) Name() string {
	return "list_refundables"
}

func (c *RefundablesCommand) Description() string {
	return "List deposits that can only be refunded"
}

func (c *RefundablesCommand) Usage() string {
	return "list_refundables"
}

func (c *RefundablesCommand) Execute(ctx context.Context, _ string, out io.Writer) error {
	swaps, err := c.wallet.ListRefundables(ctx)
	if err != nil {
		return operationError("listing refundables", err)
	}

	fmt.Fprint(out, c.formatter.Refundables(swaps))
	return nil
}

// SendFundsCommand is a placeholder for sending on-chain funds. It never
// touches the wallet.
type SendFundsCommand struct{}

func NewSendFundsCommand() *SendFundsCommand {
	return &SendFundsCommand{}
}

func (c *SendFundsCommand) Name() string {
	return "send_funds"
}

func (c *SendFundsCommand) Description() string {
	return "Send on-chain funds (not yet supported)"
}

func (c *SendFundsCommand) Usage() string {
	return "send_funds"
}

func (c *SendFundsCommand) Execute(_ context.Context, _ string, out io.Writer) error {
	fmt.Fprintf(out, "send_funds: %v\n", core.ErrNotSupported)
	return nil
}
