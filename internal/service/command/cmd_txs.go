package command

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandevgo/lnshell/internal/core"
)

type TxsCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
	now       func() time.Time
}

func NewTxsCommand(wallet core.Wallet) *TxsCommand {
	return &TxsCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
		now:       time.Now,
	}
}

func (c *TxsCommand) Name() string {
	return "txs"
}

func (c *TxsCommand) Description() string {
	return "List payments, optionally only sent or received"
}

func (c *TxsCommand) Usage() string {
	return "txs [sent|received]"
}

func (c *TxsCommand) Execute(ctx context.Context, args string, out io.Writer) error {
	filter := core.FilterAll
	switch tokens := strings.Fields(args); {
	case len(tokens) == 0:
	case len(tokens) == 1 && tokens[0] == string(core.FilterSent):
		filter = core.FilterSent
	case len(tokens) == 1 && tokens[0] == string(core.FilterReceived):
		filter = core.FilterReceived
	default:
		return usageError("Usage: %s", c.Usage())
	}

	payments, err := c.wallet.ListPayments(ctx, filter, time.Unix(0, 0), c.now())
	if err != nil {
		return operationError("listing payments", err)
	}

	fmt.Fprint(out, c.formatter.Payments(payments))
	return nil
}
