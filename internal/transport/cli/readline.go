package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/sandevgo/lnshell/internal/config"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/pkg/log"
)

type lineReader interface {
	Readline() (string, error)
	Stdout() io.Writer
	Close() error
}

type ReadLine struct {
	router core.CmdRouter
	rl     lineReader
}

func NewReadLine(router core.CmdRouter, cfg *config.AppConfig) (*ReadLine, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cfg.Prompt,
		HistoryFile:       cfg.GetHistoryPath(),
		HistorySearchFold: true,
		AutoComplete:      completer(router),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init readline: %w", err)
	}

	return &ReadLine{
		router: router,
		rl:     rl,
	}, nil
}

// completer offers command names for the first word only.
func completer(router core.CmdRouter) readline.AutoCompleter {
	items := []readline.PrefixCompleterInterface{readline.PcItem("help")}
	for _, cmd := range router.ListCommands() {
		items = append(items, readline.PcItem(cmd.Name()))
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Debug().Msg("shell started")

	fmt.Fprintf(r.rl.Stdout(), "Welcome to the %s wallet!\n\nType `help` or `?` to list commands.\n\n", core.AppName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Ctrl+C on an empty line
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if r.router.Execute(ctx, line, r.rl.Stdout()) {
			logger.Debug().Msg("shell stopped by exit")
			return nil
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
