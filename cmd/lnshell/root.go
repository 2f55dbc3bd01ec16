package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/lnshell/internal/config"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/internal/service/ui"
	"github.com/sandevgo/lnshell/pkg/log"
	"github.com/sandevgo/lnshell/pkg/srv"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:           core.AppName,
	Short:         "lnshell — an interactive Lightning wallet shell",
	Long:          `lnshell connects to an lnd node and lets you receive, pay and withdraw over Lightning and LNURL from a prompt.`,
	Version:       core.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Debug().Msg("starting lnshell")

		// Ctrl+C may abort startup (dialing, unlocking).
		startCtx, stopStart := signal.NotifyContext(ctx, os.Interrupt)
		shell, services, err := NewShell(startCtx)
		stopStart()
		if err != nil {
			srv.ShutdownServices(ctx, services)
			return err
		}

		ignoreInterrupt()
		if err := srv.Run(ctx, shell, services); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Debug().Msg("lnshell has been shut down gracefully")
		return nil
	},
}

// ignoreInterrupt leaves SIGINT to readline, which reads Ctrl+C as a key at
// the prompt. A command already running is not cancelled by it.
func ignoreInterrupt() {
	signal.Ignore(os.Interrupt)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln(ui.ErrorStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces | StyleFlag}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
