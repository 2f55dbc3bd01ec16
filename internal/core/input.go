package core

import (
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lnwire"
)

// InputType is the classification of a free-form operator input. The set of
// variants is closed: only types in this package implement it.
type InputType interface {
	isInputType()
}

type InputBolt11 struct {
	Invoice Invoice
}

type InputNodeID struct {
	NodeID string
}

type InputBitcoinAddress struct {
	Address string
	Amount  btcutil.Amount
	Label   string
}

type InputLnURLPay struct {
	Data LnURLPayRequestData
}

type InputLnURLWithdraw struct {
	Data LnURLWithdrawRequestData
}

// InputLnURLError is an LNURL endpoint that answered with status ERROR.
type InputLnURLError struct {
	Reason string
}

type InputURL struct {
	URL string
}

func (InputBolt11) isInputType()         {}
func (InputNodeID) isInputType()         {}
func (InputBitcoinAddress) isInputType() {}
func (InputLnURLPay) isInputType()       {}
func (InputLnURLWithdraw) isInputType()  {}
func (InputLnURLError) isInputType()     {}
func (InputURL) isInputType()            {}

// LnURLPayRequestData holds the parameters of an LNURL-pay (LUD-06) endpoint.
// Sendable bounds are in millisatoshis.
type LnURLPayRequestData struct {
	Callback       string
	MinSendable    lnwire.MilliSatoshi
	MaxSendable    lnwire.MilliSatoshi
	MetadataStr    string
	CommentAllowed int
	Domain         string
	LnAddress      string
}

// Description returns the text/plain entry of the metadata, if any.
func (d LnURLPayRequestData) Description() string {
	var entries [][]any
	if err := json.Unmarshal([]byte(d.MetadataStr), &entries); err != nil {
		return ""
	}
	for _, e := range entries {
		if len(e) < 2 {
			continue
		}
		if k, _ := e[0].(string); k == "text/plain" {
			v, _ := e[1].(string)
			return v
		}
	}
	return ""
}

// LnURLWithdrawRequestData holds the parameters of an LNURL-withdraw (LUD-03)
// endpoint. Withdrawable bounds are in millisatoshis.
type LnURLWithdrawRequestData struct {
	Callback           string
	K1                 string
	DefaultDescription string
	MinWithdrawable    lnwire.MilliSatoshi
	MaxWithdrawable    lnwire.MilliSatoshi
	Domain             string
}

type LnURLWithdrawResult interface {
	isLnURLWithdrawResult()
}

type WithdrawOk struct {
	Invoice Invoice
}

type WithdrawError struct {
	Reason string
}

func (WithdrawOk) isLnURLWithdrawResult()    {}
func (WithdrawError) isLnURLWithdrawResult() {}

type LnURLPayResult interface {
	isLnURLPayResult()
}

type PayEndpointSuccess struct {
	Payment       Payment
	SuccessAction SuccessAction
}

// PayEndpointError is the service refusing to issue an invoice.
type PayEndpointError struct {
	Reason string
}

// PayError is a failure to pay the invoice the service issued.
type PayError struct {
	PaymentHash string
	Reason      string
}

func (PayEndpointSuccess) isLnURLPayResult() {}
func (PayEndpointError) isLnURLPayResult()   {}
func (PayError) isLnURLPayResult()           {}

// SuccessAction is the optional LUD-09 action returned with a pay invoice.
type SuccessAction interface {
	isSuccessAction()
}

type MessageSuccessAction struct {
	Message string
}

type URLSuccessAction struct {
	Description string
	URL         string
}

func (MessageSuccessAction) isSuccessAction() {}
func (URLSuccessAction) isSuccessAction()     {}
