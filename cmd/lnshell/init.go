package main

import (
	"path/filepath"

	"github.com/sandevgo/lnshell/internal/config"
	"github.com/sandevgo/lnshell/internal/service/installer"
	"github.com/sandevgo/lnshell/pkg/log"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create secrets.txt with the wallet credentials",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		workDir := config.GetWorkingDir()
		if err := initEnv(ctx, workDir); err != nil {
			return err
		}
		appCfg := config.NewAppConfig(ctx)

		state, err := installer.RunWizard(appCfg.GetSecretsPath(), filepath.Join(workDir, ".env"))
		if err != nil {
			return err
		}

		logger.Info().Str("path", state.SecretsPath).Msg("secrets saved")
		logger.Info().Msg("Setup complete! Run 'lnshell' to open the wallet shell.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
