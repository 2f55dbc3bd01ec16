package command

import (
	"errors"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNodeID = "02eec7245d6b7d2ccb30380bfbe2a3648cd7a942653f5aa340edcea1f283686619"

func run(w *mockWallet, line string) string {
	out, _ := execute(New(NewCommands(w)), line)
	return out
}

func withdrawInput(lo, hi lnwire.MilliSatoshi) core.InputType {
	return core.InputLnURLWithdraw{Data: core.LnURLWithdrawRequestData{
		Callback:           "https://faucet.example.com/cb",
		K1:                 "k1",
		DefaultDescription: "faucet payout",
		MinWithdrawable:    lo,
		MaxWithdrawable:    hi,
	}}
}

func payInput(lo, hi lnwire.MilliSatoshi, commentAllowed int) core.InputType {
	return core.InputLnURLPay{Data: core.LnURLPayRequestData{
		Callback:       "https://shop.example.com/cb",
		MinSendable:    lo,
		MaxSendable:    hi,
		CommentAllowed: commentAllowed,
	}}
}

func TestBalanceCommand(t *testing.T) {
	w := &mockWallet{node: &core.NodeState{ChannelsBalanceMsat: 1234000, OnchainBalanceMsat: 5000}}

	out := run(w, "get_balance")

	assert.Equal(t, "Lightning balance: 1234000 millisatoshis, On-chain balance: 5000 millisatoshis\n", out)
}

func TestInfoCommand(t *testing.T) {
	node := &core.NodeState{ID: testNodeID, Alias: "lnshell", ChannelsBalanceMsat: 1000}

	t.Run("with lsp", func(t *testing.T) {
		w := &mockWallet{
			node:  node,
			lspID: "03lsp",
			lsp:   &core.LspInformation{ID: "03lsp", Name: "Example LSP", Host: "lsp.example.com:9735"},
		}
		out := run(w, "info")
		assert.Contains(t, out, testNodeID)
		assert.Contains(t, out, "Lightning balance: 1000 millisatoshis")
		assert.Contains(t, out, "Example LSP")
		assert.Equal(t, []string{"NodeInfo", "LspID", "FetchLspInfo"}, w.calls)
	})

	t.Run("without lsp", func(t *testing.T) {
		w := &mockWallet{node: node, lspErr: core.ErrNoLsp}
		out := run(w, "info")
		assert.Contains(t, out, "LSP: none")
		assert.NotContains(t, w.calls, "FetchLspInfo")
	})

	t.Run("lsp lookup fails", func(t *testing.T) {
		w := &mockWallet{node: node, lspErr: errors.New("peer offline")}
		out := run(w, "info")
		assert.Contains(t, out, "error getting lsp info: peer offline")
	})
}

func TestInvoiceCommand(t *testing.T) {
	w := &mockWallet{invoice: &core.Invoice{Bolt11: "lnbcrt10u1ptest"}}

	out := run(w, "get_lightning_invoice 1000 test   memo")

	require.Len(t, w.invoiceCalls, 1)
	assert.Equal(t, invoiceCall{amount: 1_000_000, memo: "test memo"}, w.invoiceCalls[0])
	assert.Contains(t, out, "Getting invoice for amount: 1000\n")
	assert.Contains(t, out, "With memo: test memo\n")
	assert.Contains(t, out, "pay: lnbcrt10u1ptest\n")
}

func TestInvoiceCommand_Validation(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"get_lightning_invoice", "Usage: get_lightning_invoice <amount> <memo>"},
		{"get_lightning_invoice ten sats", "Invalid amount"},
		{"get_lightning_invoice -5 memo", "Invalid amount"},
		{"get_lightning_invoice 1.5 memo", "Invalid amount"},
	}

	for _, tt := range tests {
		w := &mockWallet{}
		out := run(w, tt.line)
		assert.Contains(t, out, tt.want, tt.line)
		assert.Empty(t, w.calls, tt.line)
	}
}

func TestInvoiceCommand_EmptyMemo(t *testing.T) {
	w := &mockWallet{invoice: &core.Invoice{Bolt11: "lnbcrt1"}}

	run(w, "get_lightning_invoice 21")

	require.Len(t, w.invoiceCalls, 1)
	assert.Equal(t, "", w.invoiceCalls[0].memo)
}

func TestInvoiceCommand_BackendError(t *testing.T) {
	w := &mockWallet{err: errors.New("wallet locked")}

	out := run(w, "get_lightning_invoice 1000 memo")

	assert.Contains(t, out, "error getting invoice: wallet locked")
	assert.NotContains(t, out, "pay:")
}

func TestPayInvoiceCommand(t *testing.T) {
	invoice := core.InputBolt11{Invoice: core.Invoice{Bolt11: "lnbcrt1pinvoice"}}
	payment := &core.Payment{ID: "abcd", AmountMsat: 2000}

	t.Run("pays", func(t *testing.T) {
		w := &mockWallet{input: invoice, payment: payment}
		out := run(w, "pay_invoice lnbcrt1pinvoice")
		require.Len(t, w.sendCalls, 1)
		assert.Equal(t, "lnbcrt1pinvoice", w.sendCalls[0].target)
		assert.Nil(t, w.sendCalls[0].amount)
		assert.Contains(t, out, "Paying invoice.....: lnbcrt1pinvoice")
		assert.Contains(t, out, "✅ Payment success!")
	})

	t.Run("amount override", func(t *testing.T) {
		w := &mockWallet{input: invoice, payment: payment}
		run(w, "pay_invoice lnbcrt1pinvoice 2")
		require.Len(t, w.sendCalls, 1)
		require.NotNil(t, w.sendCalls[0].amount)
		assert.Equal(t, lnwire.MilliSatoshi(2000), *w.sendCalls[0].amount)
	})

	t.Run("not an invoice", func(t *testing.T) {
		w := &mockWallet{input: core.InputNodeID{NodeID: testNodeID}}
		out := run(w, "pay_invoice "+testNodeID)
		assert.Contains(t, out, "Invalid invoice")
		assert.Empty(t, w.sendCalls)
	})

	t.Run("payment fails", func(t *testing.T) {
		w := &mockWallet{input: invoice, err: &core.PaymentFailedError{Reason: "no route"}}
		out := run(w, "pay_invoice lnbcrt1pinvoice")
		assert.Contains(t, out, "error paying invoice: payment failed: no route")
	})

	t.Run("usage", func(t *testing.T) {
		w := &mockWallet{}
		assert.Contains(t, run(w, "pay_invoice"), "Usage: pay_invoice <invoice> [amount]")
		assert.Contains(t, run(w, "pay_invoice a b c"), "Usage: pay_invoice <invoice> [amount]")
		assert.Empty(t, w.calls)
	})
}

func TestWithdrawCommand_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		lo, hi  lnwire.MilliSatoshi
		amount  string
		want    string
		allowed bool
	}{
		{"greater than maximum", 1000, 2000, "500", "Amount is greater than maximum", false},
		{"less than minimum", 2_000_000, 5_000_000, "1", "Amount is less than minimum", false},
		{"one sat over", 1000, 10_000, "11", "Amount is greater than maximum", false},
		{"at minimum", 5000, 10_000, "5", "You successfully withdrew 5 sats!", true},
		{"at maximum", 5000, 10_000, "10", "You successfully withdrew 10 sats!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &mockWallet{
				input:    withdrawInput(tt.lo, tt.hi),
				withdraw: core.WithdrawOk{Invoice: core.Invoice{Bolt11: "lnbcrt1"}},
			}

			out := run(w, "lnurl_withdraw lnurl1dp68gurn8ghj7 "+tt.amount)

			assert.Contains(t, out, tt.want)
			if tt.allowed {
				assert.Len(t, w.withdrawCalls, 1)
			} else {
				assert.Empty(t, w.withdrawCalls)
				assert.NotContains(t, w.calls, "ReceivePayment")
			}
		})
	}
}

func TestWithdrawCommand(t *testing.T) {
	w := &mockWallet{
		input:    withdrawInput(1000, 2_000_000),
		withdraw: core.WithdrawOk{Invoice: core.Invoice{Bolt11: "lnbcrt1"}},
	}

	out := run(w, "lnurl_withdraw lnurl1dp68gurn8ghj7 1000")

	require.Len(t, w.withdrawCalls, 1)
	assert.Equal(t, lnurlCall{amount: 1_000_000, text: "faucet payout"}, w.withdrawCalls[0])
	assert.Contains(t, out, "=== Withdrawing using LNURL-withdraw ===")
	assert.Contains(t, out, "⏳ *** Requesting a withdrawal of 1000 sats ***")
	assert.Contains(t, out, "🎉 You successfully withdrew 1000 sats!")
}

func TestWithdrawCommand_Failures(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		wallet *mockWallet
		want   string
	}{
		{
			name:   "one token",
			line:   "lnurl_withdraw lnurl1dp68gurn8ghj7",
			wallet: &mockWallet{},
			want:   "Usage: lnurl_withdraw <lnurl> <amount>",
		},
		{
			name:   "three tokens",
			line:   "lnurl_withdraw lnurl1dp68gurn8ghj7 100 extra",
			wallet: &mockWallet{},
			want:   "Usage: lnurl_withdraw <lnurl> <amount>",
		},
		{
			name:   "pay lnurl",
			line:   "lnurl_withdraw lnurl1dp68gurn8ghj7 100",
			wallet: &mockWallet{input: payInput(1000, 2000, 0)},
			want:   "Invalid lnurl",
		},
		{
			name:   "service error",
			line:   "lnurl_withdraw lnurl1dp68gurn8ghj7 100",
			wallet: &mockWallet{input: core.InputLnURLError{Reason: "link expired"}},
			want:   "Invalid lnurl: link expired",
		},
		{
			name: "service refuses",
			line: "lnurl_withdraw lnurl1dp68gurn8ghj7 1",
			wallet: &mockWallet{
				input:    withdrawInput(1000, 2000),
				withdraw: core.WithdrawError{Reason: "already claimed"},
			},
			want: "😔 Withdraw error: already claimed",
		},
		{
			name: "backend fails",
			line: "lnurl_withdraw lnurl1dp68gurn8ghj7 1",
			wallet: &mockWallet{
				input: withdrawInput(1000, 2000),
				err:   errors.New("node offline"),
			},
			want: "error withdrawing: node offline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(tt.wallet, tt.line)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestPayLnurlCommand(t *testing.T) {
	w := &mockWallet{
		input: payInput(1000, 1_000_000, 32),
		pay: core.PayEndpointSuccess{
			Payment:       core.Payment{ID: "abcd"},
			SuccessAction: core.MessageSuccessAction{Message: "Thanks for the coffee"},
		},
	}

	out := run(w, "lnurl_pay alice@example.com 100 for  the coffee")

	require.Len(t, w.payCalls, 1)
	assert.Equal(t, lnurlCall{amount: 100_000, text: "for the coffee"}, w.payCalls[0])
	assert.Contains(t, out, "=== Paying using LNURL-pay ===")
	assert.Contains(t, out, "URL.....: alice@example.com")
	assert.Contains(t, out, "Memo....: for the coffee")
	assert.Contains(t, out, "🎉 Payment successful!")
	assert.Contains(t, out, "Thanks for the coffee")
}

func TestPayLnurlCommand_Bounds(t *testing.T) {
	for _, amount := range []string{"0", "1", "1001"} {
		w := &mockWallet{input: payInput(2000, 1_000_000, 0)}

		out := run(w, "lnurl_pay alice@example.com "+amount)

		assert.Contains(t, out, "Amount is out of range, make sure it is between 2000 and 1000000 millisatoshis", amount)
		assert.Empty(t, w.payCalls, amount)
	}
}

func TestPayLnurlCommand_Failures(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		wallet *mockWallet
		want   string
	}{
		{
			name:   "missing amount",
			line:   "lnurl_pay alice@example.com",
			wallet: &mockWallet{},
			want:   "Usage: lnurl_pay <url|address> <amount> [memo]",
		},
		{
			name:   "withdraw lnurl",
			line:   "lnurl_pay lnurl1dp68gurn8ghj7 10",
			wallet: &mockWallet{input: withdrawInput(1000, 20000)},
			want:   "Invalid lnurl",
		},
		{
			name:   "memo too long",
			line:   "lnurl_pay alice@example.com 10 this memo is long",
			wallet: &mockWallet{input: payInput(1000, 20000, 5)},
			want:   "Memo is too long, the service accepts at most 5 characters",
		},
		{
			name:   "endpoint error",
			line:   "lnurl_pay alice@example.com 10",
			wallet: &mockWallet{input: payInput(1000, 20000, 0), pay: core.PayEndpointError{Reason: "closed"}},
			want:   "😢 Payment failed! closed",
		},
		{
			name: "payment error",
			line: "lnurl_pay alice@example.com 10",
			wallet: &mockWallet{
				input: payInput(1000, 20000, 0),
				pay:   core.PayError{PaymentHash: "beef", Reason: "no route"},
			},
			want: "😢 Payment failed! no route",
		},
		{
			name:   "unknown result",
			line:   "lnurl_pay alice@example.com 10",
			wallet: &mockWallet{input: payInput(1000, 20000, 0)},
			want:   "Unknown result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(tt.wallet, tt.line)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSendCommand(t *testing.T) {
	w := &mockWallet{
		input:   core.InputNodeID{NodeID: testNodeID},
		payment: &core.Payment{ID: "abcd", AmountMsat: 10_000},
	}

	out := run(w, "send "+testNodeID+" 10.9")

	require.Len(t, w.sendCalls, 1)
	assert.Equal(t, testNodeID, w.sendCalls[0].target)
	assert.Equal(t, lnwire.MilliSatoshi(10_000), *w.sendCalls[0].amount)
	assert.Contains(t, out, "✅ Payment success!")
}

func TestSendCommand_Validation(t *testing.T) {
	tests := []struct {
		line  string
		input core.InputType
		want  string
	}{
		{"send " + testNodeID, nil, "Usage: send <node_id> <amount>"},
		{"send " + testNodeID + " abc", nil, "Invalid amount"},
		{"send " + testNodeID + " 0.5", nil, "Amount must be at least 1 sat"},
		{"send bc1qxyz 10", core.InputBitcoinAddress{Address: "bc1qxyz"}, "Invalid node id"},
	}

	for _, tt := range tests {
		w := &mockWallet{input: tt.input}
		out := run(w, tt.line)
		assert.Contains(t, out, tt.want, tt.line)
		assert.Empty(t, w.sendCalls, tt.line)
	}
}

func TestSwapCommands(t *testing.T) {
	swap := &core.SwapInfo{
		BitcoinAddress:    "bcrt1qdeposit",
		Status:            core.SwapWaitingConfirmation,
		UnconfirmedSats:   btcutil.Amount(40000),
		MinAllowedDeposit: 1000,
		MaxAllowedDeposit: 100000,
	}

	out := run(&mockWallet{swap: swap}, "get_deposit_address")
	assert.Contains(t, out, "bcrt1qdeposit")
	assert.Contains(t, out, "1000 sats - 100000 sats")

	out = run(&mockWallet{swap: swap}, "swap_progress")
	assert.Contains(t, out, "waiting_confirmation")
	assert.Contains(t, out, "40000 sats")

	out = run(&mockWallet{}, "swap_progress")
	assert.Equal(t, "No in-progress swap\n", out)

	out = run(&mockWallet{err: errors.New("db closed")}, "swap_progress")
	assert.Contains(t, out, "error getting swap progress: db closed")

	out = run(&mockWallet{refunds: []core.SwapInfo{*swap}}, "list_refundables")
	assert.Contains(t, out, "bcrt1qdeposit")

	out = run(&mockWallet{}, "list_refundables")
	assert.Equal(t, "No refundable swaps\n", out)
}

func TestSendFundsCommand(t *testing.T) {
	for _, line := range []string{"send_funds", "send_funds bc1qxyz 1000", "send_funds whatever"} {
		w := &mockWallet{}
		out := run(w, line)
		assert.Contains(t, out, "not yet supported")
		assert.NotContains(t, out, "error")
		assert.Empty(t, w.calls)
	}
}

func TestTxsCommand(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := &mockWallet{payments: []core.Payment{{
		ID:          "abcd",
		Type:        core.PaymentReceived,
		Status:      core.PaymentComplete,
		Time:        now.Add(-time.Hour),
		AmountMsat:  21000,
		Description: "coffee",
	}}}
	cmd := NewTxsCommand(w)
	cmd.now = func() time.Time { return now }
	r := New([]core.Command{cmd})

	out, _ := execute(r, "txs")
	require.Len(t, w.listCalls, 1)
	assert.Equal(t, listCall{filter: core.FilterAll, from: time.Unix(0, 0), to: now}, w.listCalls[0])
	assert.Contains(t, out, "coffee")
	assert.Contains(t, out, "21000")

	execute(r, "txs sent")
	execute(r, "txs received")
	require.Len(t, w.listCalls, 3)
	assert.Equal(t, core.FilterSent, w.listCalls[1].filter)
	assert.Equal(t, core.FilterReceived, w.listCalls[2].filter)

	out, _ = execute(r, "txs both")
	assert.Contains(t, out, "Usage: txs [sent|received]")
	assert.Len(t, w.listCalls, 3)
}

func TestTxsCommand_Empty(t *testing.T) {
	assert.Equal(t, "No payments\n", run(&mockWallet{}, "txs"))
}
