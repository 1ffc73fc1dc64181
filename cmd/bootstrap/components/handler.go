package components

import (
	"slot-booking/internal/handler"
	"slot-booking/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewCheckoutHandler,
		api.NewBookingHandler,
		api.NewScheduleHandler,
	),
	fx.Invoke(handler.NewRouter),
)
