package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"slices"
	"strings"
	"unicode"

	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/pkg/log"
)

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Execute runs one line of operator input and writes everything it has to say
// to out. It returns true when the shell should stop.
func (c *Router) Execute(ctx context.Context, line string, out io.Writer) bool {
	name, args := splitCommand(line)
	if name == "" {
		return false
	}

	if name == "help" || name == "?" {
		c.help(out, args)
		return false
	}

	cmd, ok := c.commands[name]
	if !ok {
		fmt.Fprintln(out, c.formatter.Error(fmt.Sprintf("command not found: %s", name)))
		return false
	}

	logger := log.FromCtx(ctx)
	logger.Debug().Str("command", name).Int("args_len", len(args)).Msg("executing command")

	err := c.run(ctx, cmd, args, out)
	switch {
	case err == nil:
		return false
	case errors.Is(err, core.ErrExit):
		return true
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		logger.Debug().Str("command", name).Str("reason", usage.Message).Msg("command rejected")
		fmt.Fprintln(out, usage.Message)
		return false
	}

	logger.Error().Err(err).Str("command", name).Msg("command failed")

	var op *OperationError
	switch {
	case errors.As(err, &op):
		fmt.Fprintln(out, c.formatter.Error(op.Error()))
	default:
		fmt.Fprintln(out, c.formatter.Error(fmt.Sprintf("error executing %s: %v", name, err)))
	}
	return false
}

// splitCommand cuts the command name off at the first whitespace rune. The
// rest of the line is returned trimmed but otherwise untouched.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func (c *Router) run(ctx context.Context, cmd core.Command, args string, out io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().
				Str("command", cmd.Name()).
				Bytes("stack", debug.Stack()).
				Msg("command panicked")
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return cmd.Execute(ctx, args, out)
}

func (c *Router) help(out io.Writer, name string) {
	if name != "" {
		cmd, ok := c.commands[name]
		if !ok {
			fmt.Fprintln(out, c.formatter.Error(fmt.Sprintf("command not found: %s", name)))
			return
		}
		fmt.Fprint(out, c.formatter.Combine(
			c.formatter.Info(cmd.Name()),
			cmd.Description()+"\n",
			c.formatter.Usage(cmd.Usage()),
		))
		return
	}

	cmds := c.ListCommands()
	items := make([]string, 0, len(cmds)+1)
	for _, cmd := range cmds {
		items = append(items, c.formatter.Command(cmd.Name(), cmd.Description()))
	}
	items = append(items, c.formatter.Command("help [command]", "Show commands or the usage of one command"))

	fmt.Fprint(out, c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
	))
}

// ListCommands returns the registered commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	slices.SortFunc(res, func(a, b core.Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return res
}
