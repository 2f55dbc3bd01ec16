package command

import (
	"context"
	"fmt"
	"io"

	"github.com/sandevgo/lnshell/internal/core"
)

type ExitCommand struct{}

func NewExitCommand() *ExitCommand {
	return &ExitCommand{}
}

func (c *ExitCommand) Name() string {
	return "exit"
}

func (c *ExitCommand) Description() string {
	return "Leave the shell"
}

func (c *ExitCommand) Usage() string {
	return "exit"
}

func (c *ExitCommand) Execute(_ context.Context, _ string, out io.Writer) error {
	fmt.Fprintln(out, "Goodbye!")
	return core.ErrExit
}
