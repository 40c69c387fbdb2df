package components

import (
	"travel-booking/internal/domain/access"
	"travel-booking/internal/handler/middleware"
	"travel-booking/internal/infra/ticket"
	"travel-booking/internal/usecase"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/inventory"
	"travel-booking/internal/usecase/ledger"
	"travel-booking/internal/usecase/outbox"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
	usecaseWorkersModule,
)

var usecaseBaseOption = fx.Provide(
	access.NewPolicy,
	inventory.New,
	ledger.New,
	NewTicketRenderer,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewTripUseCase,
		commands.NewBookingUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewTripQueries,
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseWorkersModule = fx.Module("usecase/workers",
	fx.Provide(
		sweeper.New,
		outbox.NewRelay,
	),
)

// Tickets print departure times in the zone the logs use.
func NewTicketRenderer(l *middleware.Logger) queries.TicketRenderer {
	return ticket.NewPDFRenderer(l.Location())
}
