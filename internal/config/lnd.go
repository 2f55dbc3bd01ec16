package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/lnshell/pkg/log"
)

type LndConfig struct {
	Host           string        `env:"LND_HOST,notEmpty" envDefault:"localhost:10009"`
	TLSCertPath    string        `env:"LND_TLS_CERT_PATH"`
	Network        string        `env:"LND_NETWORK,notEmpty" envDefault:"mainnet"`
	ConnectRetries int           `env:"LND_CONNECT_RETRIES" envDefault:"5"`
	UnlockTimeout  time.Duration `env:"LND_UNLOCK_TIMEOUT" envDefault:"60s"`
}

func NewLndConfig(ctx context.Context) *LndConfig {
	c := &LndConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LND config")
	}
	return c
}
