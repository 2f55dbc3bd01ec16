package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/lnshell/internal/config"
)

// SaveStep writes secrets.txt and the .env file. Existing files are never
// overwritten.
type SaveStep struct {
	err   error
	saved bool
}

func NewSaveStep() Step {
	return &SaveStep{}
}

func (s *SaveStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	if err := save(state); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

func save(state *InstallState) error {
	if _, err := os.Stat(state.SecretsPath); err == nil {
		return fmt.Errorf("secrets file already exists at %s", state.SecretsPath)
	}

	if err := config.SaveSecrets(state.SecretsPath, &state.Secrets); err != nil {
		return err
	}

	if len(state.EnvVars) == 0 {
		return nil
	}
	if _, err := os.Stat(state.EnvPath); err == nil {
		// keep the operator's .env
		return nil
	}

	content, err := godotenv.Marshal(state.EnvVars)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(state.EnvPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(state.EnvPath, []byte(content+"\n"), 0600)
}
