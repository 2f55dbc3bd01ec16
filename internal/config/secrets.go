package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	envutil "github.com/sandevgo/lnshell/pkg/env"
)

// Secrets are the operator credentials kept in secrets.txt as key=value
// lines.
type Secrets struct {
	// Phrase is the aezeed mnemonic used to create the node wallet when the
	// node has none yet.
	Phrase string `env:"phrase"`
	// InviteCode is the LSP invite: the LSP node URI, pubkey@host:port.
	InviteCode string `env:"invite_code"`
	// APIKey is the hex encoded macaroon used to authenticate RPC calls.
	APIKey         string `env:"api_key"`
	WalletPassword string `env:"wallet_password"`
}

func LoadSecrets(path string) (*Secrets, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}

	s := &Secrets{}
	if err := env.ParseWithOptions(s, env.Options{Environment: values}); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid secrets file %s: %w", path, err)
	}
	return s, nil
}

// SaveSecrets writes s to path readable by the owner only.
func SaveSecrets(path string, s *Secrets) error {
	if err := s.Validate(); err != nil {
		return err
	}
	content, err := envutil.MarshalEnv(s)
	if err != nil {
		return fmt.Errorf("failed to marshal secrets: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create secrets dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write secrets file %s: %w", path, err)
	}
	return nil
}

func (s Secrets) Validate() error {
	if s.APIKey == "" && s.Phrase == "" {
		return errors.New("either api_key or phrase must be set")
	}
	if s.Phrase != "" {
		if n := len(s.MnemonicWords()); n != 24 {
			return fmt.Errorf("phrase must have 24 words, got %d", n)
		}
	}
	if s.InviteCode != "" && !strings.Contains(s.InviteCode, "@") {
		return errors.New("invite_code must be an LSP node URI of the form pubkey@host:port")
	}
	return nil
}

func (s Secrets) MnemonicWords() []string {
	return strings.Fields(s.Phrase)
}
