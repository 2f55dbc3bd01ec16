package core

import "context"

type SwapRepository interface {
	SaveSwap(ctx context.Context, swap SwapInfo) error
	UpdateSwap(ctx context.Context, swap SwapInfo) error
	// ListSwaps returns swaps newest first, optionally restricted to statuses.
	ListSwaps(ctx context.Context, statuses ...SwapStatus) ([]SwapInfo, error)
}
