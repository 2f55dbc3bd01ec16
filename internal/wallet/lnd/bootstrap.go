package lnd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/sandevgo/lnshell/internal/config"
	"github.com/sandevgo/lnshell/pkg/log"
	"github.com/sandevgo/lnshell/pkg/retry"
	"google.golang.org/grpc"
)

// lnd refuses wallet passwords shorter than this.
const minPasswordLen = 8

var ErrNoWallet = errors.New("node has no wallet and no phrase to create one")

type stateClient interface {
	GetState(ctx context.Context, in *lnrpc.GetStateRequest, opts ...grpc.CallOption) (*lnrpc.GetStateResponse, error)
}

type unlockerClient interface {
	InitWallet(ctx context.Context, in *lnrpc.InitWalletRequest, opts ...grpc.CallOption) (*lnrpc.InitWalletResponse, error)
	UnlockWallet(ctx context.Context, in *lnrpc.UnlockWalletRequest, opts ...grpc.CallOption) (*lnrpc.UnlockWalletResponse, error)
}

// PasswordFunc asks the operator for the wallet password.
type PasswordFunc func(prompt string) ([]byte, error)

// Bootstrapper brings the node's wallet to an active state: it creates the
// wallet from the seed phrase when the node has none, and unlocks it when
// it is locked.
type Bootstrapper struct {
	state    stateClient
	unlocker unlockerClient
	retrier  *retry.Retrier
	password PasswordFunc
}

func NewBootstrapper(conn *grpc.ClientConn, retrier *retry.Retrier, password PasswordFunc) *Bootstrapper {
	return &Bootstrapper{
		state:    lnrpc.NewStateClient(conn),
		unlocker: lnrpc.NewWalletUnlockerClient(conn),
		retrier:  retrier,
		password: password,
	}
}

// Ready returns once the node serves the Lightning RPC. When it had to create
// the wallet, it returns the hex encoded admin macaroon lnd handed out.
func (b *Bootstrapper) Ready(ctx context.Context, secrets *config.Secrets) (string, error) {
	logger := log.FromCtx(ctx)

	state, err := b.probe(ctx)
	if err != nil {
		return "", err
	}
	logger.Debug().Str("state", state.String()).Msg("lnd wallet state")

	var macaroon string
	switch state {
	case lnrpc.WalletState_NON_EXISTING:
		if secrets.Phrase == "" {
			return "", ErrNoWallet
		}
		pw, err := b.walletPassword(secrets, "New wallet password: ")
		if err != nil {
			return "", err
		}
		resp, err := b.unlocker.InitWallet(ctx, &lnrpc.InitWalletRequest{
			WalletPassword:     pw,
			CipherSeedMnemonic: secrets.MnemonicWords(),
		})
		if err != nil {
			return "", fmt.Errorf("failed to create wallet: %w", err)
		}
		macaroon = hex.EncodeToString(resp.AdminMacaroon)
		logger.Info().Msg("Wallet created from phrase")

	case lnrpc.WalletState_LOCKED:
		pw, err := b.walletPassword(secrets, "Wallet password: ")
		if err != nil {
			return "", err
		}
		if _, err := b.unlocker.UnlockWallet(ctx, &lnrpc.UnlockWalletRequest{WalletPassword: pw}); err != nil {
			return "", fmt.Errorf("failed to unlock wallet: %w", err)
		}
		logger.Info().Msg("Wallet unlocked")
	}

	if err := b.waitActive(ctx); err != nil {
		return "", err
	}
	return macaroon, nil
}

// probe waits for the node to answer and to be past its startup phase.
func (b *Bootstrapper) probe(ctx context.Context) (lnrpc.WalletState, error) {
	var state lnrpc.WalletState
	err := b.retrier.Do(ctx, func() error {
		resp, err := b.state.GetState(ctx, &lnrpc.GetStateRequest{})
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Msg("lnd not reachable yet")
			return err
		}
		if resp.State == lnrpc.WalletState_WAITING_TO_START {
			return errors.New("lnd is waiting to start")
		}
		state = resp.State
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reach lnd: %w", err)
	}
	return state, nil
}

func (b *Bootstrapper) waitActive(ctx context.Context) error {
	err := b.retrier.Do(ctx, func() error {
		resp, err := b.state.GetState(ctx, &lnrpc.GetStateRequest{})
		if err != nil {
			return err
		}
		switch resp.State {
		case lnrpc.WalletState_RPC_ACTIVE, lnrpc.WalletState_SERVER_ACTIVE:
			return nil
		case lnrpc.WalletState_NON_EXISTING, lnrpc.WalletState_LOCKED:
			return retry.Stop(fmt.Errorf("wallet is %s", resp.State))
		}
		return fmt.Errorf("wallet is %s", resp.State)
	})
	if err != nil {
		return fmt.Errorf("wallet did not become active: %w", err)
	}
	return nil
}

func (b *Bootstrapper) walletPassword(secrets *config.Secrets, prompt string) ([]byte, error) {
	pw := []byte(secrets.WalletPassword)
	if len(pw) == 0 {
		if b.password == nil {
			return nil, errors.New("wallet_password is not set and no terminal is available")
		}
		var err error
		if pw, err = b.password(prompt); err != nil {
			return nil, fmt.Errorf("failed to read wallet password: %w", err)
		}
	}
	if len(pw) < minPasswordLen {
		return nil, fmt.Errorf("wallet password must have at least %d characters", minPasswordLen)
	}
	return pw, nil
}
