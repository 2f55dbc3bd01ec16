package srv

import (
	"context"

	"github.com/sandevgo/lnshell/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts the foreground service on the calling goroutine and, once it
// returns, shuts down every service in reverse registration order.
func Run(ctx context.Context, foreground Service, services []Service) error {
	err := foreground.Start(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msgf("%T stopped with error", foreground)
	}

	ShutdownServices(ctx, append(services, foreground))
	return err
}

func ShutdownServices(ctx context.Context, services []Service) {
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
