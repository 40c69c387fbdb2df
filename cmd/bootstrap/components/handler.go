package components

import (
	"travel-booking/internal/handler"
	"travel-booking/internal/handler/api"
	"travel-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewTripHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
		func(trip *api.TripHandler, booking *api.BookingHandler) handler.Handlers {
			return handler.Handlers{Trip: trip, Booking: booking}
		},
	),
	fx.Invoke(handler.NewRouter),
)
