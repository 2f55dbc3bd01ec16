package command

import (
	"github.com/sandevgo/lnshell/internal/core"
)

func NewCommands(wallet core.Wallet) []core.Command {
	return []core.Command{
		NewInfoCommand(wallet),
		NewBalanceCommand(wallet),
		NewDepositAddressCommand(wallet),
		NewSwapProgressCommand(wallet),
		NewRefundablesCommand(wallet),
		NewSendFundsCommand(),
		NewInvoiceCommand(wallet),
		NewPayInvoiceCommand(wallet),
		NewWithdrawCommand(wallet),
		NewPayLnurlCommand(wallet),
		NewSendCommand(wallet),
		NewTxsCommand(wallet),
		NewExitCommand(),
	}
}
