package bootstrap

import (
	"context"

	"slot-booking/internal/notification"
	"slot-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		notification.NewSender,
		worker.NewSweeper,
		worker.NewNotifier,
	),
	fx.Invoke(startWorkers),
)

func startWorkers(lc fx.Lifecycle, sweeper *worker.Sweeper, notifier *worker.Notifier) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go sweeper.Run(ctx)
			go notifier.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
