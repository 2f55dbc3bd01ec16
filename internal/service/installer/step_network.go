package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// NetworkStep selects the bitcoin network the node runs on.
type NetworkStep struct {
	choices []string
	cursor  int
}

func NewNetworkStep() Step {
	return &NetworkStep{
		choices: []string{"mainnet", "testnet", "signet", "regtest"},
		cursor:  0,
	}
}

func (s *NetworkStep) Init() tea.Cmd {
	return nil
}

func (s *NetworkStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars["LND_NETWORK"] = s.choices[s.cursor]
			return nil, nil
		}
	}
	return s, nil
}

func (s *NetworkStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select the bitcoin network of your node:\n\n")
	for i, choice := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
