package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/lnshell/pkg/log"
)

type AppConfig struct {
	// WorkingDir holds the secrets file, the swap ledger and the shell
	// history. Defaults to the process directory.
	WorkingDir  string `env:"LNSHELL_WORKING_DIR" envDefault:"."`
	SecretsFile string `env:"LNSHELL_SECRETS_FILE" envDefault:"secrets.txt"`
	HistoryFile string `env:"LNSHELL_HISTORY_FILE" envDefault:".lnshell_history"`
	DBFile      string `env:"LNSHELL_DB_FILE" envDefault:"lnshell.db"`
	Prompt      string `env:"LNSHELL_PROMPT" envDefault:"wallet> "`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetWorkingDir() string {
	return c.WorkingDir
}

func (c AppConfig) GetSecretsPath() string {
	return c.resolve(c.SecretsFile)
}

func (c AppConfig) GetHistoryPath() string {
	return c.resolve(c.HistoryFile)
}

func (c AppConfig) GetDatabasePath() string {
	return c.resolve(c.DBFile)
}

func (c AppConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.WorkingDir, name)
}
