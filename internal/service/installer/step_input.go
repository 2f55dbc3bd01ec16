package installer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep asks for one value. apply stores it in the state and may reject
// it, in which case the step stays on screen with the error.
type InputStep struct {
	input    textinput.Model
	title    string
	optional bool
	apply    func(state *InstallState, value string) error
	err      error
}

func newInputStep(title, placeholder string, secret, optional bool, apply func(*InstallState, string) error) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return &InputStep{
		input:    ti,
		title:    title,
		optional: optional,
		apply:    apply,
	}
}

func NewHostStep() Step {
	return newInputStep("lnd gRPC address", "localhost:10009", false, true,
		func(state *InstallState, value string) error {
			if value == "" {
				return nil
			}
			if !strings.Contains(value, ":") {
				return errors.New("address must be host:port")
			}
			state.EnvVars["LND_HOST"] = value
			return nil
		})
}

func NewPhraseStep() Step {
	return newInputStep("24 word recovery phrase, used to create the wallet", "abandon ability able ...", true, true,
		func(state *InstallState, value string) error {
			phrase := strings.Join(strings.Fields(value), " ")
			if phrase != "" {
				if n := len(strings.Fields(phrase)); n != 24 {
					return fmt.Errorf("phrase must have 24 words, got %d", n)
				}
			}
			state.Secrets.Phrase = phrase
			return nil
		})
}

func NewAPIKeyStep() Step {
	return newInputStep("admin macaroon, hex encoded", "0201036c6e64...", true, true,
		func(state *InstallState, value string) error {
			if value == "" {
				if state.Secrets.Phrase == "" {
					return errors.New("a macaroon is required when no recovery phrase is given")
				}
				return nil
			}
			if _, err := hex.DecodeString(value); err != nil {
				return errors.New("macaroon must be hex encoded")
			}
			state.Secrets.APIKey = value
			return nil
		})
}

func NewInviteStep() Step {
	return newInputStep("LSP invite code", "pubkey@host:9735", false, true,
		func(state *InstallState, value string) error {
			if value != "" && !strings.Contains(value, "@") {
				return errors.New("invite code must be pubkey@host:port")
			}
			state.Secrets.InviteCode = value
			return nil
		})
}

func NewWalletPasswordStep() Step {
	return newInputStep("wallet password, leave empty to be asked on every start", "", true, true,
		func(state *InstallState, value string) error {
			if value != "" && len(value) < 8 {
				return errors.New("password must have at least 8 characters")
			}
			state.Secrets.WalletPassword = value
			return nil
		})
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if err := s.apply(state, strings.TrimSpace(s.input.Value())); err != nil {
			s.err = err
			return s, nil
		}
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	hint := ""
	if s.optional {
		hint = " (optional, press Enter to skip)"
	}

	view := fmt.Sprintf("Enter the %s%s:\n\n%s\n\n", s.title, hint, s.input.View())
	if s.err != nil {
		view += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}
