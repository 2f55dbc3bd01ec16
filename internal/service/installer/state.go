package installer

import "github.com/sandevgo/lnshell/internal/config"

type InstallState struct {
	SecretsPath string
	EnvPath     string

	Secrets config.Secrets
	// EnvVars end up in the .env file next to secrets.txt.
	EnvVars map[string]string
}

func NewInstallState(secretsPath, envPath string) *InstallState {
	return &InstallState{
		SecretsPath: secretsPath,
		EnvPath:     envPath,
		EnvVars:     make(map[string]string),
	}
}
