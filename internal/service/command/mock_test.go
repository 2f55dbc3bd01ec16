package command

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/sandevgo/lnshell/internal/core"
)

type invoiceCall struct {
	amount lnwire.MilliSatoshi
	memo   string
}

type sendCall struct {
	target string
	amount *lnwire.MilliSatoshi
}

type lnurlCall struct {
	amount lnwire.MilliSatoshi
	text   string
}

type listCall struct {
	filter   core.PaymentTypeFilter
	from, to time.Time
}

// mockWallet records every call; calls lists them by method name in order.
type mockWallet struct {
	calls []string
	err   error

	node     *core.NodeState
	lspID    string
	lspErr   error
	lsp      *core.LspInformation
	swap     *core.SwapInfo
	refunds  []core.SwapInfo
	invoice  *core.Invoice
	payment  *core.Payment
	input    core.InputType
	withdraw core.LnURLWithdrawResult
	pay      core.LnURLPayResult
	payments []core.Payment

	invoiceCalls  []invoiceCall
	sendCalls     []sendCall
	withdrawCalls []lnurlCall
	payCalls      []lnurlCall
	listCalls     []listCall
}

func (m *mockWallet) record(name string) {
	m.calls = append(m.calls, name)
}

func (m *mockWallet) NodeInfo(context.Context) (*core.NodeState, error) {
	m.record("NodeInfo")
	return m.node, m.err
}

func (m *mockWallet) LspID(context.Context) (string, error) {
	m.record("LspID")
	return m.lspID, m.lspErr
}

func (m *mockWallet) FetchLspInfo(context.Context, string) (*core.LspInformation, error) {
	m.record("FetchLspInfo")
	return m.lsp, m.err
}

func (m *mockWallet) ReceiveOnchain(context.Context) (*core.SwapInfo, error) {
	m.record("ReceiveOnchain")
	return m.swap, m.err
}

func (m *mockWallet) InProgressSwap(context.Context) (*core.SwapInfo, error) {
	m.record("InProgressSwap")
	return m.swap, m.err
}

func (m *mockWallet) ListRefundables(context.Context) ([]core.SwapInfo, error) {
	m.record("ListRefundables")
	return m.refunds, m.err
}

func (m *mockWallet) ReceivePayment(_ context.Context, amount lnwire.MilliSatoshi, memo string) (*core.Invoice, error) {
	m.record("ReceivePayment")
	m.invoiceCalls = append(m.invoiceCalls, invoiceCall{amount: amount, memo: memo})
	return m.invoice, m.err
}

func (m *mockWallet) SendPayment(_ context.Context, bolt11 string, amount *lnwire.MilliSatoshi) (*core.Payment, error) {
	m.record("SendPayment")
	m.sendCalls = append(m.sendCalls, sendCall{target: bolt11, amount: amount})
	return m.payment, m.err
}

func (m *mockWallet) SendSpontaneousPayment(_ context.Context, nodeID string, amount lnwire.MilliSatoshi) (*core.Payment, error) {
	m.record("SendSpontaneousPayment")
	m.sendCalls = append(m.sendCalls, sendCall{target: nodeID, amount: &amount})
	return m.payment, m.err
}

func (m *mockWallet) ListPayments(_ context.Context, filter core.PaymentTypeFilter, from, to time.Time) ([]core.Payment, error) {
	m.record("ListPayments")
	m.listCalls = append(m.listCalls, listCall{filter: filter, from: from, to: to})
	return m.payments, m.err
}

func (m *mockWallet) ParseInput(context.Context, string) (core.InputType, error) {
	m.record("ParseInput")
	return m.input, nil
}

func (m *mockWallet) WithdrawLnurl(_ context.Context, _ core.LnURLWithdrawRequestData, amount lnwire.MilliSatoshi, description string) (core.LnURLWithdrawResult, error) {
	m.record("WithdrawLnurl")
	m.withdrawCalls = append(m.withdrawCalls, lnurlCall{amount: amount, text: description})
	return m.withdraw, m.err
}

func (m *mockWallet) PayLnurl(_ context.Context, _ core.LnURLPayRequestData, amount lnwire.MilliSatoshi, comment string) (core.LnURLPayResult, error) {
	m.record("PayLnurl")
	m.payCalls = append(m.payCalls, lnurlCall{amount: amount, text: comment})
	return m.pay, m.err
}

func (m *mockWallet) Close() error {
	m.record("Close")
	return nil
}
