package core

import (
	"context"
	"errors"
	"io"
)

// ErrExit is returned by a command to end the shell loop.
var ErrExit = errors.New("exit requested")

type CmdRouter interface {
	Execute(ctx context.Context, line string, out io.Writer) bool
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Usage() string
	Execute(ctx context.Context, args string, out io.Writer) error
}
