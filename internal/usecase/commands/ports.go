package commands

import (
	"context"

	"slot-booking/internal/domain/checkout"
)

// GatewayIntent is the processor-side view of a payment intent.
type GatewayIntent struct {
	ID           string
	ClientSecret string
	Status       checkout.PaymentStatus
	AmountCents  int64
}

// PaymentGateway abstracts the payment processor. The engine only ever
// creates intents and polls their status; settlement itself happens entirely
// on the processor side.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*GatewayIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*GatewayIntent, error)
}

// AvailabilityInvalidator drops cached availability snapshots after any write
// that changes remaining capacity.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context)
}
