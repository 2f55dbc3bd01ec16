package lnd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/internal/lnurl"
)

const bitcoinScheme = "bitcoin:"

var ErrUnrecognizedInput = errors.New("unrecognized input")

// ParseInput classifies free-form operator input. LNURLs and lightning
// addresses are resolved over the network to learn their kind.
func (w *Wallet) ParseInput(ctx context.Context, input string) (core.InputType, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, ErrUnrecognizedInput
	}

	if _, _, err := lnurl.Endpoint(s); err == nil {
		if w.lnurl == nil {
			return nil, errors.New("lnurl is not available")
		}
		return w.lnurl.Resolve(ctx, s)
	}

	bare := stripLightningPrefix(s)
	if isNodeID(strings.ToLower(bare)) {
		return core.InputNodeID{NodeID: strings.ToLower(bare)}, nil
	}

	if strings.HasPrefix(strings.ToLower(bare), "ln") {
		inv, err := w.decodeInvoice(bare)
		if err == nil {
			return core.InputBolt11{Invoice: *inv}, nil
		}
	}

	if strings.HasPrefix(strings.ToLower(s), bitcoinScheme) {
		return w.parseBitcoinURI(ctx, s)
	}

	if addr, err := btcutil.DecodeAddress(s, w.net); err == nil && addr.IsForNet(w.net) {
		return core.InputBitcoinAddress{Address: addr.EncodeAddress()}, nil
	}

	if u, err := url.Parse(s); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return core.InputURL{URL: u.String()}, nil
	}

	return nil, ErrUnrecognizedInput
}

// parseBitcoinURI handles BIP-21 URIs. A lightning parameter wins over the
// on-chain address.
func (w *Wallet) parseBitcoinURI(ctx context.Context, s string) (core.InputType, error) {
	rest := s[len(bitcoinScheme):]
	address, rawQuery, _ := strings.Cut(rest, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid bitcoin uri: %w", err)
	}

	if ln := query.Get("lightning"); ln != "" {
		return w.ParseInput(ctx, ln)
	}

	addr, err := btcutil.DecodeAddress(address, w.net)
	if err != nil || !addr.IsForNet(w.net) {
		return nil, fmt.Errorf("invalid bitcoin address %q for %s", address, w.net.Name)
	}

	result := core.InputBitcoinAddress{
		Address: addr.EncodeAddress(),
		Label:   query.Get("label"),
	}
	if raw := query.Get("amount"); raw != "" {
		btc, err := strconv.ParseFloat(raw, 64)
		if err != nil || btc < 0 {
			return nil, fmt.Errorf("invalid bitcoin uri amount %q", raw)
		}
		if result.Amount, err = btcutil.NewAmount(btc); err != nil {
			return nil, fmt.Errorf("invalid bitcoin uri amount %q: %w", raw, err)
		}
	}
	return result, nil
}

func stripLightningPrefix(s string) string {
	const prefix = "lightning:"
	s = strings.TrimSpace(s)
	if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}
