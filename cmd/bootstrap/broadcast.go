package bootstrap

import (
	"context"
	"log/slog"

	"hotel-booking/internal/infra/broadcast"
	"hotel-booking/internal/infra/health"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var BroadcastModule = fx.Module("broadcast",
	fx.Provide(
		NewBroadcaster,
		fx.Annotate(
			func(b *broadcast.Broadcaster) *broadcast.Broadcaster { return b },
			fx.As(new(shared.Publisher)),
			fx.As(new(health.SubscriberCounter)),
		),
	),
)

// NewBroadcaster closes every open stream with reason shutdown when the app stops.
func NewBroadcaster(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *broadcast.Broadcaster {
	b := broadcast.New(cfg.Broadcast.SubscriberBuffer, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info("購読中のストリームを終了します", "subscribers", b.SubscriberCount())
			b.Close()
			return nil
		},
	})
	return b
}
