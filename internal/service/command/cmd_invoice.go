package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/sandevgo/lnshell/internal/core"
)

type InvoiceCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewInvoiceCommand(wallet core.Wallet) *InvoiceCommand {
	return &InvoiceCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *InvoiceCommand) Name() string {
	return "get_lightning_invoice"
}

func (c *InvoiceCommand) Description() string {
	return "Create a bolt11 invoice, amount in sats"
}

func (c *InvoiceCommand) Usage() string {
	return "get_lightning_invoice <amount> <memo>"
}

func (c *InvoiceCommand) Execute(ctx context.Context, args string, out io.Writer) error {
	head, memo, err := tailArgs(args, 1, c.Usage())
	if err != nil {
		return err
	}

	amount, err := parseSats(head[0])
	if err != nil {
		return usageError("Invalid amount: %v", err)
	}

	fmt.Fprintf(out, "Getting invoice for amount: %d\n", int64(amount.ToSatoshis()))
	fmt.Fprintf(out, "With memo: %s\n", memo)

	invoice, err := c.wallet.ReceivePayment(ctx, amount, memo)
	if err != nil {
		return operationError("getting invoice", err)
	}

	fmt.Fprintf(out, "pay: %s\n", invoice.Bolt11)
	return nil
}

type PayInvoiceCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewPayInvoiceCommand(wallet core.Wallet) *PayInvoiceCommand {
	return &PayInvoiceCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *PayInvoiceCommand) Name() string {
	return "pay_invoice"
}

func (c *PayInvoiceCommand) Description() string {
	return "Pay a bolt11 invoice; the amount in sats is only for zero-amount invoices"
}

func (c *PayInvoiceCommand) Usage() string {
	return "pay_invoice <invoice> [amount]"
}

func (c *PayInvoiceCommand) Execute(ctx context.Context, args string, out io.Writer) error {
	tokens := strings.Fields(args)
	if len(tokens) < 1 || len(tokens) > 2 {
		return usageError("Usage: %s", c.Usage())
	}

	var override *lnwire.MilliSatoshi
	if len(tokens) == 2 {
		amount, err := parseSats(tokens[1])
		if err != nil {
			return usageError("Invalid amount: %v", err)
		}
		override = &amount
	}

	input, err := c.wallet.ParseInput(ctx, tokens[0])
	if err != nil {
		return operationError("parsing invoice", err)
	}
	bolt11, ok := input.(core.InputBolt11)
	if !ok {
		return usageError("Invalid invoice")
	}

	fmt.Fprintf(out, "Paying invoice.....: %s\n", bolt11.Invoice.Bolt11)

	payment, err := c.wallet.SendPayment(ctx, bolt11.Invoice.Bolt11, override)
	if err != nil {
		return operationError("paying invoice", err)
	}

	fmt.Fprint(out, c.formatter.Payment(payment))
	return nil
}
