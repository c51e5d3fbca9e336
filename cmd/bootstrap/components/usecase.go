package components

import (
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/password"
	"hotel-booking/internal/usecase"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseAuthModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

// One Workflow serves both command ports so rooms and bookings share a single guard.
var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewWorkflow,
		fx.Annotate(
			func(w *commands.Workflow) *commands.Workflow { return w },
			fx.As(new(commands.RoomCommands)),
			fx.As(new(commands.BookingCommands)),
		),
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRoomQueries,
		queries.NewBookingQueries,
	),
)

var usecaseAuthModule = fx.Module("usecase/auth",
	fx.Provide(
		func(cfg config.Config) config.AdminConfig { return cfg.Admin },
		usecase.NewAuthUseCase,
		usecase.NewTokenValidator,
	),
	fx.Invoke(validateAdminHash),
)

func validateAdminHash(cfg config.AdminConfig) error {
	return password.ValidateHash(cfg.PasswordHash)
}
