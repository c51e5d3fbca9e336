package bootstrap

import (
	"context"
	"log/slog"

	"hotel-booking/internal/handler/api"
	"hotel-booking/internal/infra/health"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var HealthModule = fx.Module("health",
	fx.Provide(
		fx.Annotate(
			NewHealthMonitor,
			fx.As(new(api.HealthReporter)),
		),
	),
)

// NewHealthMonitor runs the monitor loop for the lifetime of the app.
func NewHealthMonitor(
	lc fx.Lifecycle,
	cfg config.Config,
	pinger shared.Pinger,
	subs health.SubscriberCounter,
	clk clock.Clock,
	logger *slog.Logger,
) *health.Monitor {
	m := health.NewMonitor(string(cfg.Store.Driver), pinger, subs, clk, cfg.Health.Interval, cfg.Health.Timeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				if err := m.Run(ctx); err != nil && ctx.Err() == nil {
					logger.Error("ヘルスモニターが停止しました", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
	return m
}
