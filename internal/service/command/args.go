package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lnwire"
)

// UsageError rejects a command line before any backend call. The message is
// shown to the operator as is.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// OperationError is a failed backend operation.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("error %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func operationError(op string, err error) error {
	return &OperationError{Op: op, Err: err}
}

var errNotANumber = errors.New("not a number")

// fixedArgs splits args on whitespace and requires exactly n tokens.
func fixedArgs(args string, n int, usage string) ([]string, error) {
	tokens := strings.Fields(args)
	if len(tokens) != n {
		return nil, usageError("Usage: %s", usage)
	}
	return tokens, nil
}

// tailArgs requires at least n leading tokens and joins the rest with single
// spaces. The tail may be empty.
func tailArgs(args string, n int, usage string) ([]string, string, error) {
	tokens := strings.Fields(args)
	if len(tokens) < n {
		return nil, "", usageError("Usage: %s", usage)
	}
	return tokens[:n], strings.Join(tokens[n:], " "), nil
}

// parseSats parses a whole, non-negative satoshi amount and returns it in
// millisatoshis.
func parseSats(token string) (lnwire.MilliSatoshi, error) {
	sats, err := strconv.ParseInt(token, 10, 64)
	if err != nil || sats < 0 {
		return 0, fmt.Errorf("%w: %q", errNotANumber, token)
	}
	if sats > math.MaxInt64/1000 {
		return 0, fmt.Errorf("amount %s is too large", token)
	}
	return lnwire.NewMSatFromSatoshis(btcutil.Amount(sats)), nil
}

// parseSatsFloor accepts a decimal satoshi amount and rounds it down.
func parseSatsFloor(token string) (lnwire.MilliSatoshi, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", errNotANumber, token)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative: %s", token)
	}
	floored := math.Floor(v)
	if floored > float64(math.MaxInt64/1000) {
		return 0, fmt.Errorf("amount %s is too large", token)
	}
	return lnwire.NewMSatFromSatoshis(btcutil.Amount(floored)), nil
}

// checkRange reports whether amount lies in [lo, hi], both inclusive.
func checkRange(amount, lo, hi lnwire.MilliSatoshi) error {
	if amount < lo || amount > hi {
		return usageError(
			"Amount is out of range, make sure it is between %d and %d millisatoshis",
			uint64(lo), uint64(hi),
		)
	}
	return nil
}
