package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandevgo/lnshell/pkg/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPhrase = strings.TrimSpace(strings.Repeat("abandon ", 23) + "art")

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSecrets(t *testing.T) {
	path := writeSecrets(t, "phrase="+testPhrase+"\n"+
		"invite_code=02abc@lsp.example.com:9735\n"+
		"api_key=0201036c6e64\n")

	s, err := LoadSecrets(path)

	require.NoError(t, err)
	assert.Equal(t, testPhrase, s.Phrase)
	assert.Len(t, s.MnemonicWords(), 24)
	assert.Equal(t, "02abc@lsp.example.com:9735", s.InviteCode)
	assert.Equal(t, "0201036c6e64", s.APIKey)
	assert.Empty(t, s.WalletPassword)
}

func TestLoadSecrets_RoundTripsMarshalEnv(t *testing.T) {
	in := &Secrets{
		Phrase:         testPhrase,
		APIKey:         "0201036c6e64",
		WalletPassword: `pa$$ "word"`,
	}
	content, err := env.MarshalEnv(in)
	require.NoError(t, err)

	out, err := LoadSecrets(writeSecrets(t, content))

	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadSecrets_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no credentials",
			content: "invite_code=02abc@lsp:9735\n",
			wantErr: "either api_key or phrase must be set",
		},
		{
			name:    "short phrase",
			content: "phrase=abandon abandon art\n",
			wantErr: "phrase must have 24 words, got 3",
		},
		{
			name:    "invite without host",
			content: "api_key=00\ninvite_code=not-a-uri\n",
			wantErr: "invite_code must be an LSP node URI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSecrets(writeSecrets(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSecrets_MissingFile(t *testing.T) {
	_, err := LoadSecrets(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read secrets file")
}

func TestSaveSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secrets.txt")
	in := &Secrets{
		Phrase:     testPhrase,
		InviteCode: "02abc@lsp.example.com:9735",
	}

	require.NoError(t, SaveSecrets(path, in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := LoadSecrets(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveSecrets_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.txt")

	err := SaveSecrets(path, &Secrets{InviteCode: "02abc@lsp"})

	require.Error(t, err)
	assert.NoFileExists(t, path)
}
