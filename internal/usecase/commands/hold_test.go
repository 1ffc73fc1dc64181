//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"slot-booking/internal/domain/slot"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type HoldUseCaseTestSuite struct {
	suite.Suite
	store       *fakeStore
	clock       *clock.MockClock
	invalidator *fakeInvalidator
	uc          commands.HoldCommands
}

func (s *HoldUseCaseTestSuite) SetupTest() {
	s.store = newFakeStore()
	s.clock = clock.NewMockClock(time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC))
	s.invalidator = &fakeInvalidator{}
	s.uc = commands.NewHoldUseCase(&fakeUoW{store: s.store}, s.invalidator, s.clock, config.BookingConfig{
		HoldTTL:     15 * time.Minute,
		HorizonDays: 90,
	})
}

func TestHoldUseCaseSuite(t *testing.T) {
	suite.Run(t, new(HoldUseCaseTestSuite))
}

func (s *HoldUseCaseTestSuite) key(date, label string) slot.Key {
	k, err := slot.ParseKey(date, label)
	s.Require().NoError(err)
	return k
}

func (s *HoldUseCaseTestSuite) TestPlaceHoldsCreatesSessionAndHolds() {
	k1 := s.key("2025-05-11", "09:00")
	k2 := s.key("2025-05-11", "10:00")
	s.store.addSlot(k1, 3, 0, 1000)
	s.store.addSlot(k2, 3, 0, 1000)

	result, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{k1, k2})
	s.Require().NoError(err)

	s.Len(result.Held, 2)
	s.Equal(s.clock.Now().Add(15*time.Minute), result.ExpiresAt)
	s.Len(s.store.holds, 2)
	s.Contains(s.store.sessions, result.SessionID)
	s.Equal(1, s.invalidator.calls)
}

func (s *HoldUseCaseTestSuite) TestPlaceHoldsIsAllOrNothing() {
	k1 := s.key("2025-05-11", "09:00")
	k2 := s.key("2025-05-11", "10:00")
	s.store.addSlot(k1, 3, 0, 1000)
	s.store.addSlot(k2, 1, 1, 1000) // full

	_, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{k1, k2})
	s.Require().True(errs.Is(err, errs.ErrCapacityExceeded))

	// The available slot must not be held either.
	s.Empty(s.store.holds)
	s.Equal(0, s.invalidator.calls)
}

func (s *HoldUseCaseTestSuite) TestPlaceHoldsCountsActiveHoldsAgainstCapacity() {
	k := s.key("2025-05-11", "09:00")
	s.store.addSlot(k, 2, 1, 1000)

	first, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{k})
	s.Require().NoError(err)

	// committed(1) + holds(1) == total(2): a second session must be refused.
	_, err = s.uc.PlaceHolds(context.Background(), nil, []slot.Key{k})
	s.Require().True(errs.Is(err, errs.ErrCapacityExceeded))

	// Expire the first hold; capacity frees up without any sweep.
	s.clock.Add(16 * time.Minute)
	_, err = s.uc.PlaceHolds(context.Background(), nil, []slot.Key{k})
	s.NoError(err)
	_ = first
}

func (s *HoldUseCaseTestSuite) TestPlaceHoldsReholdingSameSlotIsNoop() {
	k := s.key("2025-05-11", "09:00")
	s.store.addSlot(k, 1, 0, 1000)

	first, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{k})
	s.Require().NoError(err)

	again, err := s.uc.PlaceHolds(context.Background(), &first.SessionID, []slot.Key{k})
	s.Require().NoError(err)
	s.Equal(first.SessionID, again.SessionID)
	s.Len(s.store.holds, 1)
}

func (s *HoldUseCaseTestSuite) TestPlaceHoldsReportsSoonestExpiryAcrossBatches() {
	k1 := s.key("2025-05-11", "09:00")
	k2 := s.key("2025-05-11", "10:00")
	s.store.addSlot(k1, 3, 0, 1000)
	s.store.addSlot(k2, 3, 0, 1000)

	first, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{k1})
	s.Require().NoError(err)

	// A later batch gets its own deadline, but the session is only safe until
	// the earliest hold lapses, and that is what the caller must see.
	s.clock.Add(5 * time.Minute)
	second, err := s.uc.PlaceHolds(context.Background(), &first.SessionID, []slot.Key{k2})
	s.Require().NoError(err)

	s.Equal(first.ExpiresAt, second.ExpiresAt)
}

func (s *HoldUseCaseTestSuite) TestPlaceHoldsValidation() {
	s.Run("empty selection", func() {
		_, err := s.uc.PlaceHolds(context.Background(), nil, nil)
		s.True(errs.Is(err, errs.ErrEmptySelection))
	})

	s.Run("past date", func() {
		_, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{s.key("2025-05-09", "09:00")})
		s.True(errs.Is(err, errs.ErrSlotInPast))
	})

	s.Run("beyond horizon", func() {
		_, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{s.key("2026-01-01", "09:00")})
		s.True(errs.Is(err, errs.ErrSlotOutOfHorizon))
	})

	s.Run("unknown slot", func() {
		_, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{s.key("2025-05-11", "23:00")})
		s.True(errs.Is(err, errs.ErrSlotNotFound))
	})
}

func (s *HoldUseCaseTestSuite) TestReleaseHoldsIsIdempotent() {
	k := s.key("2025-05-11", "09:00")
	s.store.addSlot(k, 1, 0, 1000)

	result, err := s.uc.PlaceHolds(context.Background(), nil, []slot.Key{k})
	s.Require().NoError(err)

	s.Require().NoError(s.uc.ReleaseHolds(context.Background(), result.SessionID))
	s.Empty(s.store.holds)

	// Releasing again is a no-op, not an error.
	s.NoError(s.uc.ReleaseHolds(context.Background(), result.SessionID))
}

func (s *HoldUseCaseTestSuite) TestReleaseHoldsUnknownSession() {
	err := s.uc.ReleaseHolds(context.Background(), uuid.New())
	s.True(errs.Is(err, errs.ErrSessionNotFound))
}
