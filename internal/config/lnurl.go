package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/lnshell/pkg/log"
)

type LNURLConfig struct {
	Timeout        time.Duration `env:"LNURL_TIMEOUT" envDefault:"30s"`
	ResolveRetries int           `env:"LNURL_RESOLVE_RETRIES" envDefault:"2"`
}

func NewLNURLConfig(ctx context.Context) *LNURLConfig {
	c := &LNURLConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LNURL config")
	}
	return c
}
