package bootstrap

import (
	"slot-booking/internal/infra/payments"

	"go.uber.org/fx"
)

var PaymentsModule = fx.Module("payments",
	fx.Provide(
		payments.NewStripeGateway,
	),
)
