package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sandevgo/lnshell/internal/core"
)

type InfoCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewInfoCommand(wallet core.Wallet) *InfoCommand {
	return &InfoCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *InfoCommand) Name() string {
	return "info"
}

func (c *InfoCommand) Description() string {
	return "Show node and LSP information"
}

func (c *InfoCommand) Usage() string {
	return "info"
}

func (c *InfoCommand) Execute(ctx context.Context, _ string, out io.Writer) error {
	node, err := c.wallet.NodeInfo(ctx)
	if err != nil {
		return operationError("getting node info", err)
	}

	lsp, err := c.lspInfo(ctx)
	if err != nil {
		return operationError("getting lsp info", err)
	}

	fmt.Fprint(out, c.formatter.Combine(
		c.formatter.NodeInfo(node),
		c.formatter.LspInfo(lsp),
	))
	return nil
}

// lspInfo returns nil when the wallet has no LSP.
func (c *InfoCommand) lspInfo(ctx context.Context) (*core.LspInformation, error) {
	id, err := c.wallet.LspID(ctx)
	if errors.Is(err, core.ErrNoLsp) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c.wallet.FetchLspInfo(ctx, id)
}

type BalanceCommand struct {
	wallet    core.Wallet
	formatter *ResponseFormatter
}

func NewBalanceCommand(wallet core.Wallet) *BalanceCommand {
	return &BalanceCommand{
		wallet:    wallet,
		formatter: NewResponseFormatter(),
	}
}

func (c *BalanceCommand) Name() string {
	return "get_balance"
}

func (c *BalanceCommand) Description() string {
	return "Show Lightning and on-chain balance"
}

func (c *BalanceCommand) Usage() string {
	return "get_balance"
}

func (c *BalanceCommand) Execute(ctx context.Context, _ string, out io.Writer) error {
	node, err := c.wallet.NodeInfo(ctx)
	if err != nil {
		return operationError("getting balance", err)
	}

	fmt.Fprint(out, c.formatter.Balance(node))
	return nil
}
