package command

import (
	"context"
	"fmt"
	"io"

	"github.com/sandevgo/lnshell/internal/core"
)

// SendCommand pays a node directly without an invoice (keysend).
type SendCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewSendCommand(wallet core.Wallet) *SendCommand {
	return &SendCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *SendCommand) Name() string {
	return "send"
}

func (c *SendCommand) Description() string {
	return "Send a spontaneous payment to a node, amount in sats"
}

func (c *SendCommand) Usage() string {
	return "send <node_id> <amount>"
}

func (c *SendCommand) Execute(ctx context.Context, args string, out io.Writer) error {
	tokens, err := fixedArgs(args, 2, c.Usage())
	if err != nil {
		return err
	}

	amount, err := parseSatsFloor(tokens[1])
	if err != nil {
		return usageError("Invalid amount: %v", err)
	}
	if amount == 0 {
		return usageError("Amount must be at least 1 sat")
	}

	input, err := c.wallet.ParseInput(ctx, tokens[0])
	if err != nil {
		return operationError("parsing node id", err)
	}
	node, ok := input.(core.InputNodeID)
	if !ok {
		return usageError("Invalid node id")
	}

	fmt.Fprintf(out, "Sending %d sats to %s\n", int64(amount.ToSatoshis()), node.NodeID)

	payment, err := c.wallet.SendSpontaneousPayment(ctx, node.NodeID, amount)
	if err != nil {
		return operationError("sending payment", err)
	}

	fmt.Fprint(out, c.formatter.Payment(payment))
	return nil
}
