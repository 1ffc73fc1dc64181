package payments

import (
	"context"
	"errors"

	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/commands"

	"github.com/cenkalti/backoff/v4"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var (
	errIntentCreate   = errs.New("failed to create payment intent at processor")
	errIntentRetrieve = errs.New("failed to retrieve payment intent from processor")
)

// StripeGateway drives payment intents at Stripe. The API client is
// initialized once and reused; Stripe's SDK is safe for concurrent use.
type StripeGateway struct {
	api      *client.API
	currency string
	retries  uint64
	timeout  config.PaymentsConfig
}

func NewStripeGateway(cfg config.PaymentsConfig) commands.PaymentGateway {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return &StripeGateway{
		api:      api,
		currency: cfg.Currency,
		retries:  cfg.MaxRetries,
		timeout:  cfg,
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*commands.GatewayIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errs.Mark(err, errIntentCreate)
	}
	return toGatewayIntent(pi), nil
}

// RetrieveIntent polls the processor with capped exponential backoff. Only
// transport-level failures are retried; a definitive intent status or a 4xx
// response ends the loop immediately.
func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*commands.GatewayIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout.RefreshTimeout)
	defer cancel()

	operation := func() (*stripe.PaymentIntent, error) {
		params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
		pi, err := g.api.PaymentIntents.Get(id, params)
		if err != nil {
			if isRetryable(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return pi, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), g.retries), ctx)

	pi, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		return nil, errs.Mark(err, errIntentRetrieve)
	}
	return toGatewayIntent(pi), nil
}

func isRetryable(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		// No structured error means the request never got a response.
		return true
	}
	return stripeErr.HTTPStatusCode >= 500 || stripeErr.HTTPStatusCode == 429
}

func toGatewayIntent(pi *stripe.PaymentIntent) *commands.GatewayIntent {
	return &commands.GatewayIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       mapIntentStatus(pi),
		AmountCents:  pi.Amount,
	}
}

// mapIntentStatus folds Stripe's status set into the engine's four buckets.
// Stripe has no standalone "failed" status; a canceled intent that carries a
// payment error is what a definitive failure looks like on the wire.
func mapIntentStatus(pi *stripe.PaymentIntent) checkout.PaymentStatus {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return checkout.PaymentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		if pi.LastPaymentError != nil {
			return checkout.PaymentFailed
		}
		return checkout.PaymentCanceled
	default:
		return checkout.PaymentRequiresPayment
	}
}
