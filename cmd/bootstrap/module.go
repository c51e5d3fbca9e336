package bootstrap

import (
	"hotel-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StoreModule,
	BroadcastModule,
	HealthModule,
	JWTModule,
	components.UseCaseModule,
	components.HandlerModule,
)
