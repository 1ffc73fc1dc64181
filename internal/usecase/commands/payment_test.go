//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/domain/slot"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type PaymentUseCaseTestSuite struct {
	suite.Suite
	store       *fakeStore
	clock       *clock.MockClock
	gateway     *fakeGateway
	invalidator *fakeInvalidator
	holds       commands.HoldCommands
	uc          commands.PaymentCommands
}

func (s *PaymentUseCaseTestSuite) SetupTest() {
	s.store = newFakeStore()
	s.clock = clock.NewMockClock(time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC))
	s.invalidator = &fakeInvalidator{}
	s.gateway = &fakeGateway{
		createFn: func(amountCents int64, _ map[string]string) (*commands.GatewayIntent, error) {
			return &commands.GatewayIntent{
				ID:           "pi_" + uuid.NewString()[:8],
				ClientSecret: "secret",
				Status:       checkout.PaymentRequiresPayment,
				AmountCents:  amountCents,
			}, nil
		},
	}
	uow := &fakeUoW{store: s.store}
	s.holds = commands.NewHoldUseCase(uow, s.invalidator, s.clock, config.BookingConfig{
		HoldTTL:     15 * time.Minute,
		HorizonDays: 90,
	})
	s.uc = commands.NewPaymentUseCase(uow, s.gateway, s.invalidator, s.clock)
}

func TestPaymentUseCaseSuite(t *testing.T) {
	suite.Run(t, new(PaymentUseCaseTestSuite))
}

func (s *PaymentUseCaseTestSuite) placeHolds(prices ...int64) uuid.UUID {
	keys := make([]slot.Key, len(prices))
	for i, price := range prices {
		k, err := slot.ParseKey("2025-05-11", time.Date(2025, 1, 1, 9+i, 0, 0, 0, time.UTC).Format("15:04"))
		s.Require().NoError(err)
		s.store.addSlot(k, 3, 0, price)
		keys[i] = k
	}
	result, err := s.holds.PlaceHolds(context.Background(), nil, keys)
	s.Require().NoError(err)
	return result.SessionID
}

func (s *PaymentUseCaseTestSuite) TestCreateIntentPricesHeldSlots() {
	sessionID := s.placeHolds(1000, 1500)

	result, err := s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().NoError(err)

	s.Equal(int64(2500), result.AmountCents)
	s.Equal("secret", result.ClientSecret)
	s.False(result.IsReplayed)
	s.Equal([]int64{2500}, s.gateway.created)

	session := s.store.sessions[sessionID]
	s.Equal(checkout.StateAwaitingPayment, session.State())
	s.Require().NotNil(session.PaymentIntentID())
	s.Equal(result.PaymentIntentID, *session.PaymentIntentID())
	s.Contains(s.store.intents, result.PaymentIntentID)
}

func (s *PaymentUseCaseTestSuite) TestCreateIntentWithoutHoldsIsRejected() {
	// Session exists but its holds have lapsed.
	sessionID := s.placeHolds(1000)
	s.clock.Add(16 * time.Minute)

	_, err := s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().True(errs.Is(err, errs.ErrNoActiveHolds))

	// No processor intent may exist before a verified hold.
	s.Empty(s.gateway.created)
	s.Equal(checkout.StateSelecting, s.store.sessions[sessionID].State())
}

func (s *PaymentUseCaseTestSuite) TestCreateIntentReplaysExistingIntent() {
	sessionID := s.placeHolds(1000)

	first, err := s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().NoError(err)

	second, err := s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().NoError(err)

	s.True(second.IsReplayed)
	s.Equal(first.PaymentIntentID, second.PaymentIntentID)
	s.Equal(first.AmountCents, second.AmountCents)
	// The processor was only called once.
	s.Len(s.gateway.created, 1)
}

func (s *PaymentUseCaseTestSuite) TestCreateIntentRejectsLapseDuringProcessorCall() {
	// Two hold batches with staggered expiries on one session.
	k1, err := slot.ParseKey("2025-05-11", "09:00")
	s.Require().NoError(err)
	k2, err := slot.ParseKey("2025-05-11", "10:00")
	s.Require().NoError(err)
	s.store.addSlot(k1, 3, 0, 1000)
	s.store.addSlot(k2, 3, 0, 1000)

	first, err := s.holds.PlaceHolds(context.Background(), nil, []slot.Key{k1})
	s.Require().NoError(err)
	sessionID := first.SessionID

	s.clock.Add(5 * time.Minute)
	_, err = s.holds.PlaceHolds(context.Background(), &sessionID, []slot.Key{k2})
	s.Require().NoError(err)

	// The first hold lapses while the processor call is in flight.
	s.gateway.createFn = func(amountCents int64, _ map[string]string) (*commands.GatewayIntent, error) {
		s.clock.Add(11 * time.Minute)
		return &commands.GatewayIntent{
			ID:           "pi_lapsed",
			ClientSecret: "secret",
			Status:       checkout.PaymentRequiresPayment,
			AmountCents:  amountCents,
		}, nil
	}

	_, err = s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().True(errs.Is(err, errs.ErrHoldExpired))

	// The intent priced both slots, so it must not bind to the session.
	s.NotContains(s.store.intents, "pi_lapsed")
	s.Equal(checkout.StateSelecting, s.store.sessions[sessionID].State())
	s.Nil(s.store.sessions[sessionID].PaymentIntentID())
}

func (s *PaymentUseCaseTestSuite) TestCreateIntentUnknownSession() {
	_, err := s.uc.CreateIntent(context.Background(), uuid.New())
	s.True(errs.Is(err, errs.ErrSessionNotFound))
}

func (s *PaymentUseCaseTestSuite) TestRefreshStatusMarksPaid() {
	sessionID := s.placeHolds(1000)
	intent, err := s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().NoError(err)

	s.gateway.retrieveFn = func(id string) (*commands.GatewayIntent, error) {
		return &commands.GatewayIntent{ID: id, Status: checkout.PaymentSucceeded, AmountCents: 1000}, nil
	}

	result, err := s.uc.RefreshStatus(context.Background(), sessionID)
	s.Require().NoError(err)

	s.Equal(checkout.PaymentSucceeded, result.PaymentStatus)
	s.Equal(checkout.StatePaid, result.SessionState)
	s.Equal(checkout.PaymentSucceeded, s.store.intents[intent.PaymentIntentID].Status)
	// Holds survive until the booking commits.
	s.Len(s.store.holds, 1)
}

func (s *PaymentUseCaseTestSuite) TestRefreshStatusDefinitiveFailureReleasesHolds() {
	sessionID := s.placeHolds(1000)
	_, err := s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().NoError(err)

	s.gateway.retrieveFn = func(id string) (*commands.GatewayIntent, error) {
		return &commands.GatewayIntent{ID: id, Status: checkout.PaymentFailed, AmountCents: 1000}, nil
	}

	result, err := s.uc.RefreshStatus(context.Background(), sessionID)
	s.Require().NoError(err)

	s.Equal(checkout.StatePaymentFailed, result.SessionState)
	s.Empty(s.store.holds)
}

func (s *PaymentUseCaseTestSuite) TestRefreshStatusNonDefinitiveKeepsWaiting() {
	sessionID := s.placeHolds(1000)
	_, err := s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().NoError(err)

	s.gateway.retrieveFn = func(id string) (*commands.GatewayIntent, error) {
		return &commands.GatewayIntent{ID: id, Status: checkout.PaymentRequiresPayment, AmountCents: 1000}, nil
	}

	result, err := s.uc.RefreshStatus(context.Background(), sessionID)
	s.Require().NoError(err)

	s.Equal(checkout.StateAwaitingPayment, result.SessionState)
	s.Len(s.store.holds, 1)
}

func (s *PaymentUseCaseTestSuite) TestRefreshStatusWithoutIntent() {
	sessionID := s.placeHolds(1000)

	_, err := s.uc.RefreshStatus(context.Background(), sessionID)
	s.True(errs.Is(err, errs.ErrPaymentIntentNotFound))
}

func (s *PaymentUseCaseTestSuite) TestRefreshStatusGatewayDown() {
	sessionID := s.placeHolds(1000)
	_, err := s.uc.CreateIntent(context.Background(), sessionID)
	s.Require().NoError(err)

	s.gateway.retrieveFn = func(id string) (*commands.GatewayIntent, error) {
		return nil, errs.New("connection refused")
	}

	_, err = s.uc.RefreshStatus(context.Background(), sessionID)
	s.True(errs.Is(err, errs.ErrPaymentStatusUnavailable))
	// An unreachable processor must not flip the session state.
	s.Equal(checkout.StateAwaitingPayment, s.store.sessions[sessionID].State())
}
