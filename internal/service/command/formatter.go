package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/internal/service/ui"
)

const (
	timeLayout     = time.DateTime
	maxDescription = 40
)

// ResponseFormatter turns wallet results into terminal text. It has no side
// effects; callers decide where the text goes.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return ui.TitleStyle.Render(title) + "\n"
}

func (f *ResponseFormatter) Success(message string) string {
	return ui.SuccessStyle.Render(message) + "\n"
}

func (f *ResponseFormatter) Error(message string) string {
	return ui.ErrorStyle.Render(message)
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("%s %s\n", ui.LabelStyle.Render(label+":"), value)
}

func (f *ResponseFormatter) Usage(usage string) string {
	return fmt.Sprintf("Usage: %s\n", ui.UsageStyle.Render(usage))
}

func (f *ResponseFormatter) Command(name, description string) string {
	return fmt.Sprintf("%-24s %s", ui.UsageStyle.Render(name), ui.DescStyle.Render(description))
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("› %s\n", item))
	}
	return sb.String()
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}

// Balance prints both balances on one line, in millisatoshis.
func (f *ResponseFormatter) Balance(node *core.NodeState) string {
	return fmt.Sprintf(
		"Lightning balance: %d millisatoshis, On-chain balance: %d millisatoshis\n",
		uint64(node.ChannelsBalanceMsat), uint64(node.OnchainBalanceMsat),
	)
}

func (f *ResponseFormatter) NodeInfo(node *core.NodeState) string {
	peers := "none"
	if len(node.ConnectedPeers) > 0 {
		peers = strings.Join(node.ConnectedPeers, ", ")
	}

	return f.Combine(
		f.Info("Node"),
		f.Label("ID", node.ID)+
			f.Label("Alias", node.Alias)+
			f.Label("Version", node.Version)+
			f.Label("Block height", fmt.Sprintf("%d", node.BlockHeight))+
			f.Label("Synced to chain", fmt.Sprintf("%t", node.SyncedToChain))+
			f.Label("Active channels", fmt.Sprintf("%d", node.NumActiveChannels))+
			f.Label("Peers", peers),
		f.Balance(node),
	)
}

func (f *ResponseFormatter) LspInfo(lsp *core.LspInformation) string {
	if lsp == nil {
		return f.Label("LSP", "none")
	}

	return f.Combine(
		f.Info("LSP"),
		f.Label("ID", lsp.ID)+
			f.Label("Name", lsp.Name)+
			f.Label("Host", lsp.Host)+
			f.Label("Channels", fmt.Sprintf("%d", lsp.NumChannels))+
			f.Label("Capacity", sats(lsp.TotalCapacity)),
	)
}

// Swap prints a deposit swap field by field. A nil swap means there is none in
// progress.
func (f *ResponseFormatter) Swap(swap *core.SwapInfo) string {
	if swap == nil {
		return "No in-progress swap\n"
	}

	txs := "none"
	if len(swap.ConfirmedTxIDs) > 0 {
		txs = strings.Join(swap.ConfirmedTxIDs, ", ")
	}

	return f.Label("Address", swap.BitcoinAddress) +
		f.Label("Status", string(swap.Status)) +
		f.Label("Created", swap.CreatedAt.Local().Format(timeLayout)) +
		f.Label("Unconfirmed", sats(swap.UnconfirmedSats)) +
		f.Label("Confirmed", sats(swap.ConfirmedSats)) +
		f.Label("Confirmed txs", txs) +
		f.Label("Allowed deposit", fmt.Sprintf("%s - %s",
			sats(swap.MinAllowedDeposit), sats(swap.MaxAllowedDeposit)))
}

func (f *ResponseFormatter) Refundables(swaps []core.SwapInfo) string {
	if len(swaps) == 0 {
		return "No refundable swaps\n"
	}

	t := newTable()
	t.AppendHeader(table.Row{"Address", "Confirmed (sat)", "Unconfirmed (sat)", "Created"})
	for _, s := range swaps {
		t.AppendRow(table.Row{
			s.BitcoinAddress,
			int64(s.ConfirmedSats),
			int64(s.UnconfirmedSats),
			s.CreatedAt.Local().Format(timeLayout),
		})
	}
	return t.Render() + "\n"
}

func (f *ResponseFormatter) Payments(payments []core.Payment) string {
	if len(payments) == 0 {
		return "No payments\n"
	}

	t := newTable()
	t.AppendHeader(table.Row{"Time", "Type", "Status", "Amount (msat)", "Fee (msat)", "Description", "ID"})
	for _, p := range payments {
		t.AppendRow(table.Row{
			p.Time.Local().Format(timeLayout),
			string(p.Type),
			string(p.Status),
			uint64(p.AmountMsat),
			uint64(p.FeeMsat),
			truncate(p.Description, maxDescription),
			p.ID,
		})
	}
	return t.Render() + "\n"
}

func (f *ResponseFormatter) Payment(p *core.Payment) string {
	return f.Success("✅ Payment success!") +
		f.Label("Payment hash", p.ID) +
		f.Label("Amount", msat(p.AmountMsat)) +
		f.Label("Fee", msat(p.FeeMsat))
}

func (f *ResponseFormatter) WithdrawResult(result core.LnURLWithdrawResult, amount lnwire.MilliSatoshi) string {
	switch r := result.(type) {
	case core.WithdrawOk:
		return f.Success(fmt.Sprintf("🎉 You successfully withdrew %d sats!", int64(amount.ToSatoshis())))
	case core.WithdrawError:
		return f.Error("😔 Withdraw error: "+r.Reason) + "\n"
	default:
		return f.Error(fmt.Sprintf("Unknown result: %T", result)) + "\n"
	}
}

func (f *ResponseFormatter) PayResult(result core.LnURLPayResult) string {
	switch r := result.(type) {
	case core.PayEndpointSuccess:
		return f.Success("🎉 Payment successful!") +
			f.Label("Payment hash", r.Payment.ID) +
			f.Label("Fee", msat(r.Payment.FeeMsat)) +
			f.SuccessAction(r.SuccessAction)
	case core.PayEndpointError:
		return f.Error("😢 Payment failed! "+r.Reason) + "\n"
	case core.PayError:
		return f.Error("😢 Payment failed! "+r.Reason) + "\n" +
			f.Label("Payment hash", r.PaymentHash)
	default:
		return f.Error(fmt.Sprintf("Unknown result: %T", result)) + "\n"
	}
}

func (f *ResponseFormatter) SuccessAction(action core.SuccessAction) string {
	switch a := action.(type) {
	case nil:
		return ""
	case core.MessageSuccessAction:
		return f.Label("Message", a.Message)
	case core.URLSuccessAction:
		if a.Description == "" {
			return f.Label("URL", a.URL)
		}
		return f.Label("URL", a.Description+" "+a.URL)
	default:
		return f.Label("Success action", fmt.Sprintf("unknown %T", action))
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

func sats(amount btcutil.Amount) string {
	return fmt.Sprintf("%d sats", int64(amount))
}

func msat(amount lnwire.MilliSatoshi) string {
	return fmt.Sprintf("%d millisatoshis", uint64(amount))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
