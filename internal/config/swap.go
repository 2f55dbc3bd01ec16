package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/lnshell/pkg/log"
)

// SwapConfig bounds the deposits accepted on a swap address. Deposits outside
// the range are reported as refundable.
type SwapConfig struct {
	MinDepositSat int64 `env:"SWAP_MIN_DEPOSIT_SAT" envDefault:"1000"`
	MaxDepositSat int64 `env:"SWAP_MAX_DEPOSIT_SAT" envDefault:"4000000"`
}

func NewSwapConfig(ctx context.Context) *SwapConfig {
	c := &SwapConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Swap config")
	}
	if c.MaxDepositSat < c.MinDepositSat {
		log.FromCtx(ctx).Fatal().
			Int64("min", c.MinDepositSat).
			Int64("max", c.MaxDepositSat).
			Msg("SWAP_MAX_DEPOSIT_SAT must not be below SWAP_MIN_DEPOSIT_SAT")
	}
	return c
}
