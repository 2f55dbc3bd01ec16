package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sandevgo/lnshell/internal/core"
	"github.com/sandevgo/lnshell/pkg/log"
)

var ErrSwapNotFound = errors.New("swap not found")

type SwapRepo struct {
	db *sql.DB
}

func NewSwapRepo(db *sql.DB) *SwapRepo {
	return &SwapRepo{db: db}
}

func (r *SwapRepo) SaveSwap(ctx context.Context, swap core.SwapInfo) error {
	if swap.CreatedAt.IsZero() {
		swap.CreatedAt = time.Now()
	}

	query := `INSERT INTO swaps (
		bitcoin_address, status, unconfirmed_sats, confirmed_sats, confirmed_tx_ids,
		min_allowed_deposit, max_allowed_deposit, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		swap.BitcoinAddress,
		string(swap.Status),
		int64(swap.UnconfirmedSats),
		int64(swap.ConfirmedSats),
		strings.Join(swap.ConfirmedTxIDs, ","),
		int64(swap.MinAllowedDeposit),
		int64(swap.MaxAllowedDeposit),
		swap.CreatedAt.Unix(),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert swap: %w", err)
	}
	return nil
}

func (r *SwapRepo) UpdateSwap(ctx context.Context, swap core.SwapInfo) error {
	query := `UPDATE swaps SET
		status = ?, unconfirmed_sats = ?, confirmed_sats = ?, confirmed_tx_ids = ?, updated_at = ?
	WHERE bitcoin_address = ?`

	res, err := r.db.ExecContext(ctx, query,
		string(swap.Status),
		int64(swap.UnconfirmedSats),
		int64(swap.ConfirmedSats),
		strings.Join(swap.ConfirmedTxIDs, ","),
		time.Now().Unix(),
		swap.BitcoinAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to update swap: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSwapNotFound, swap.BitcoinAddress)
	}
	return nil
}

func (r *SwapRepo) ListSwaps(ctx context.Context, statuses ...core.SwapStatus) ([]core.SwapInfo, error) {
	query := `SELECT bitcoin_address, status, unconfirmed_sats, confirmed_sats, confirmed_tx_ids,
		min_allowed_deposit, max_allowed_deposit, created_at FROM swaps`

	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, s := range statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query swaps: %w", err)
	}
	defer rows.Close()

	var swaps []core.SwapInfo
	for rows.Next() {
		var (
			swap                   core.SwapInfo
			status, txIDs          string
			unconfirmed, confirmed int64
			minDeposit, maxDeposit int64
			createdAt              int64
		)
		if err := rows.Scan(
			&swap.BitcoinAddress, &status, &unconfirmed, &confirmed, &txIDs,
			&minDeposit, &maxDeposit, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan swap: %w", err)
		}

		swap.Status = core.SwapStatus(status)
		swap.UnconfirmedSats = btcutil.Amount(unconfirmed)
		swap.ConfirmedSats = btcutil.Amount(confirmed)
		swap.MinAllowedDeposit = btcutil.Amount(minDeposit)
		swap.MaxAllowedDeposit = btcutil.Amount(maxDeposit)
		swap.CreatedAt = time.Unix(createdAt, 0)
		if txIDs != "" {
			swap.ConfirmedTxIDs = strings.Split(txIDs, ",")
		}
		swaps = append(swaps, swap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(swaps)).Msg("loaded swaps")
	return swaps, nil
}
