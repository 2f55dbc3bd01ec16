package core

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lnwire"
)

const (
	AppName       = "lnshell"
	AppUserAgent  = "lnshell/0.1"
	AppVersion    = "0.1.0"
	RepositoryURL = "https://github.com/sandevgo/lnshell"
)

// NodeState is a snapshot of the wallet node. Balances are in millisatoshis.
type NodeState struct {
	ID                  string
	Alias               string
	Version             string
	BlockHeight         uint32
	SyncedToChain       bool
	NumActiveChannels   uint32
	ChannelsBalanceMsat lnwire.MilliSatoshi
	OnchainBalanceMsat  lnwire.MilliSatoshi
	ConnectedPeers      []string
}

type LspInformation struct {
	ID            string
	Name          string
	Host          string
	Color         string
	Addresses     []string
	NumChannels   uint32
	TotalCapacity btcutil.Amount
}

type SwapStatus string

const (
	SwapInitial             SwapStatus = "initial"
	SwapWaitingConfirmation SwapStatus = "waiting_confirmation"
	SwapCompleted           SwapStatus = "completed"
	SwapRefundable          SwapStatus = "refundable"
)

// SwapInfo tracks a single on-chain deposit address handed out to the
// operator.
type SwapInfo struct {
	BitcoinAddress    string
	Status            SwapStatus
	CreatedAt         time.Time
	UnconfirmedSats   btcutil.Amount
	ConfirmedSats     btcutil.Amount
	ConfirmedTxIDs    []string
	MinAllowedDeposit btcutil.Amount
	MaxAllowedDeposit btcutil.Amount
}

type Invoice struct {
	Bolt11          string
	PaymentHash     string
	Destination     string
	Description     string
	DescriptionHash string
	AmountMsat      lnwire.MilliSatoshi
	Timestamp       time.Time
	Expiry          time.Duration
}

type PaymentType string

const (
	PaymentSent     PaymentType = "sent"
	PaymentReceived PaymentType = "received"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentComplete PaymentStatus = "complete"
	PaymentFailed   PaymentStatus = "failed"
)

type Payment struct {
	ID          string
	Type        PaymentType
	Status      PaymentStatus
	Time        time.Time
	AmountMsat  lnwire.MilliSatoshi
	FeeMsat     lnwire.MilliSatoshi
	Description string
	Bolt11      string
	Preimage    string
}

type PaymentTypeFilter string

const (
	FilterAll      PaymentTypeFilter = "all"
	FilterSent     PaymentTypeFilter = "sent"
	FilterReceived PaymentTypeFilter = "received"
)

// Includes reports whether payments of type t pass the filter.
func (f PaymentTypeFilter) Includes(t PaymentType) bool {
	switch f {
	case FilterSent:
		return t == PaymentSent
	case FilterReceived:
		return t == PaymentReceived
	default:
		return true
	}
}
