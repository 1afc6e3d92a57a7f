package dependencies

import (
	"context"

	"github.com/zhenzou/executors"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/cart"
	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/notify"
	"github.com/PerryRichardson/storefront/internal/storage"
)

var Module = fx.Module("dependencies",
	fx.Provide(log.New),
	fx.Provide(storage.Open),
	fx.Provide(cart.New),
	fx.Provide(notify.New),
	fx.Provide(NewExecutors),
	fx.Invoke(func(lc fx.Lifecycle, executor executors.ScheduledExecutor, store *storage.Client) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if err := executor.Shutdown(ctx); err != nil {
					return err
				}

				return store.Close()
			},
		})
	}),
)
