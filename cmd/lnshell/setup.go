package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/lnshell/internal/config"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/internal/lnurl"
	"github.com/sandevgo/lnshell/internal/service/command"
	"github.com/sandevgo/lnshell/internal/storage/sqlite"
	"github.com/sandevgo/lnshell/internal/transport/cli"
	"github.com/sandevgo/lnshell/internal/wallet/lnd"
	"github.com/sandevgo/lnshell/pkg/log"
	"github.com/sandevgo/lnshell/pkg/retry"
	"github.com/sandevgo/lnshell/pkg/srv"
	"golang.org/x/term"
	"google.golang.org/grpc"
)

// NewShell wires the wallet and returns the interactive shell together with
// the services to shut down once it exits. On error the returned services are
// the ones already opened.
func NewShell(ctx context.Context) (srv.Service, []srv.Service, error) {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// 1. Configuration
	if err := initEnv(ctx, config.GetWorkingDir()); err != nil {
		return nil, services, err
	}
	appCfg := config.NewAppConfig(ctx)
	lndCfg := config.NewLndConfig(ctx)
	swapCfg := config.NewSwapConfig(ctx)
	lnurlCfg := config.NewLNURLConfig(ctx)

	secretsPath := appCfg.GetSecretsPath()
	secrets, err := config.LoadSecrets(secretsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services, fmt.Errorf("no secrets file at %s, run '%s init' first", secretsPath, core.AppName)
		}
		return nil, services, err
	}

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		return nil, services, fmt.Errorf("failed to initialize storage: %w", err)
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. Node
	network, err := lnd.NetworkParams(lndCfg.Network)
	if err != nil {
		return nil, services, err
	}

	conn, err := initNode(ctx, lndCfg, secretsPath, secrets)
	if err != nil {
		return nil, services, err
	}

	wallet, err := lnd.New(conn, lnurl.NewClient(lnurlCfg), sqlite.NewSwapRepo(db), lnd.Options{
		Network: network,
		Swap:    swapCfg,
		Invite:  secrets.InviteCode,
	})
	if err != nil {
		conn.Close()
		return nil, services, err
	}
	services = append(services, srv.NewCleanup(wallet.Close))

	if err := wallet.ConnectLsp(ctx); err != nil && !errors.Is(err, core.ErrNoLsp) {
		logger.Warn().Err(err).Msg("LSP is not reachable, payments may fail")
	}

	// 4. Shell
	router := command.New(command.NewCommands(wallet))
	shell, err := cli.NewReadLine(router, appCfg)
	if err != nil {
		return nil, services, err
	}

	return shell, services, nil
}

// initNode makes sure the node's wallet is ready and returns an
// authenticated connection. A macaroon handed out while creating the wallet
// is stored in the secrets file.
func initNode(ctx context.Context, cfg *config.LndConfig, secretsPath string, secrets *config.Secrets) (*grpc.ClientConn, error) {
	logger := log.FromCtx(ctx)

	conn, err := lnd.Dial(cfg, secrets.APIKey)
	if err != nil {
		return nil, err
	}

	readyCtx, cancel := context.WithTimeout(ctx, cfg.UnlockTimeout)
	defer cancel()

	bootstrapper := lnd.NewBootstrapper(conn, retry.WithMaxRetries(cfg.ConnectRetries), passwordPrompt())
	macaroon, err := bootstrapper.Ready(readyCtx, secrets)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if macaroon == "" {
		if secrets.APIKey == "" {
			conn.Close()
			return nil, errors.New("api_key is required in the secrets file, the node already has a wallet")
		}
		return conn, nil
	}

	conn.Close()
	secrets.APIKey = macaroon
	if err := config.SaveSecrets(secretsPath, secrets); err != nil {
		logger.Warn().Err(err).Str("api_key", macaroon).Msg("failed to store the new macaroon, add it to the secrets file")
	} else {
		logger.Info().Str("path", secretsPath).Msg("api_key saved")
	}
	return lnd.Dial(cfg, macaroon)
}

// passwordPrompt reads the wallet password from the terminal without echo.
// Without a terminal there is nobody to ask.
func passwordPrompt() lnd.PasswordFunc {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	return func(prompt string) ([]byte, error) {
		fmt.Fprint(os.Stderr, prompt)
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return pw, err
	}
}

func initEnv(ctx context.Context, workDir string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(workDir, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
