package command

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/sandevgo/lnshell/internal/core"
)

type WithdrawCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewWithdrawCommand(wallet core.Wallet) *WithdrawCommand {
	return &WithdrawCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *WithdrawCommand) Name() string {
	return "lnurl_withdraw"
}

func (c *WithdrawCommand) Description() string {
	return "Withdraw from an LNURL-withdraw service, amount in sats"
}

func (c *WithdrawCommand) Usage() string {
	return "lnurl_withdraw <lnurl> <amount>"
}

func (c *WithdrawCommand) Execute(ctx context.Context, args string, out io.Writer) error {
	tokens, err := fixedArgs(args, 2, c.Usage())
	if err != nil {
		return err
	}

	amount, err := parseSats(tokens[1])
	if err != nil {
		return usageError("Invalid amount: %v", err)
	}

	fmt.Fprintln(out, "=== Withdrawing using LNURL-withdraw ===")
	fmt.Fprintf(out, "LNURL: %s\n", tokens[0])

	input, err := c.wallet.ParseInput(ctx, tokens[0])
	if err != nil {
		return operationError("parsing lnurl", err)
	}

	var data core.LnURLWithdrawRequestData
	switch in := input.(type) {
	case core.InputLnURLWithdraw:
		data = in.Data
	case core.InputLnURLError:
		return usageError("Invalid lnurl: %s", in.Reason)
	default:
		return usageError("Invalid lnurl")
	}

	switch {
	case amount < data.MinWithdrawable:
		return usageError("Amount is less than minimum, make sure it is between %d and %d millisatoshis",
			uint64(data.MinWithdrawable), uint64(data.MaxWithdrawable))
	case amount > data.MaxWithdrawable:
		return usageError("Amount is greater than maximum, make sure it is between %d and %d millisatoshis",
			uint64(data.MinWithdrawable), uint64(data.MaxWithdrawable))
	}

	fmt.Fprintf(out, "⏳ *** Requesting a withdrawal of %d sats ***\n", int64(amount.ToSatoshis()))

	result, err := c.wallet.WithdrawLnurl(ctx, data, amount, data.DefaultDescription)
	if err != nil {
		return operationError("withdrawing", err)
	}

	fmt.Fprint(out, c.formatter.WithdrawResult(result, amount))
	return nil
}

type PayLnurlCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewPayLnurlCommand(wallet core.Wallet) *PayLnurlCommand {
	return &PayLnurlCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *PayLnurlCommand) Name() string {
	return "lnurl_pay"
}

func (c *PayLnurlCommand) Description() string {
	return "Pay an LNURL-pay service or lightning address, amount in sats"
}

func (c *PayLnurlCommand) Usage() string {
	return "lnurl_pay <url|address> <amount> [memo]"
}

func (c *PayLnurlCommand) Execute(ctx context.Context, args string, out io.Writer) error {
	head, memo, err := tailArgs(args, 2, c.Usage())
	if err != nil {
		return err
	}

	amount, err := parseSats(head[1])
	if err != nil {
		return usageError("Invalid amount: %v", err)
	}

	fmt.Fprintln(out, "=== Paying using LNURL-pay ===")
	fmt.Fprintf(out, "URL.....: %s\n", head[0])
	fmt.Fprintf(out, "Amount..: %d sats\n", int64(amount.ToSatoshis()))
	fmt.Fprintf(out, "Memo....: %s\n", memo)

	input, err := c.wallet.ParseInput(ctx, head[0])
	if err != nil {
		return operationError("parsing lnurl", err)
	}

	var data core.LnURLPayRequestData
	switch in := input.(type) {
	case core.InputLnURLPay:
		data = in.Data
	case core.InputLnURLError:
		return usageError("Invalid lnurl: %s", in.Reason)
	default:
		return usageError("Invalid lnurl")
	}

	if err := checkRange(amount, data.MinSendable, data.MaxSendable); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(memo); data.CommentAllowed > 0 && n > data.CommentAllowed {
		return usageError("Memo is too long, the service accepts at most %d characters", data.CommentAllowed)
	}

	result, err := c.wallet.PayLnurl(ctx, data, amount, memo)
	if err != nil {
		return operationError("paying lnurl", err)
	}

	fmt.Fprint(out, c.formatter.PayResult(result))
	return nil
}
