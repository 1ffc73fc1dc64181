//go:build unit

package commands_test

import (
	"context"
	"testing"

	"slot-booking/internal/domain/slot"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/commands"

	"github.com/stretchr/testify/suite"
)

type ScheduleUseCaseTestSuite struct {
	suite.Suite
	store       *fakeStore
	invalidator *fakeInvalidator
	uc          commands.ScheduleCommands
}

func (s *ScheduleUseCaseTestSuite) SetupTest() {
	s.store = newFakeStore()
	s.invalidator = &fakeInvalidator{}
	s.uc = commands.NewScheduleUseCase(&fakeUoW{store: s.store}, s.invalidator, config.NewTestConfig().Booking)
}

func TestScheduleUseCaseSuite(t *testing.T) {
	suite.Run(t, new(ScheduleUseCaseTestSuite))
}

func (s *ScheduleUseCaseTestSuite) entry(date, label string, capacity int, price int64) commands.ScheduleEntry {
	k, err := slot.ParseKey(date, label)
	s.Require().NoError(err)
	return commands.ScheduleEntry{Key: k, TotalCapacity: capacity, PriceCents: price}
}

func (s *ScheduleUseCaseTestSuite) TestUpsertSlotsCreatesAndInvalidates() {
	err := s.uc.UpsertSlots(context.Background(), []commands.ScheduleEntry{
		s.entry("2025-05-11", "09:00", 3, 1500),
		s.entry("2025-05-11", "10:00", 2, 2000),
	})
	s.Require().NoError(err)

	s.Len(s.store.slots, 2)
	s.Equal(1, s.invalidator.calls)
}

func (s *ScheduleUseCaseTestSuite) TestUpsertSlotsDefaultsPrice() {
	err := s.uc.UpsertSlots(context.Background(), []commands.ScheduleEntry{
		s.entry("2025-05-11", "09:00", 3, 0),
	})
	s.Require().NoError(err)

	for _, rec := range s.store.slots {
		s.Equal(int64(1000), rec.price)
	}
}

func (s *ScheduleUseCaseTestSuite) TestUpsertSlotsReshapesExisting() {
	k, err := slot.ParseKey("2025-05-11", "09:00")
	s.Require().NoError(err)
	id := s.store.addSlot(k, 2, 1, 1000)

	err = s.uc.UpsertSlots(context.Background(), []commands.ScheduleEntry{
		s.entry("2025-05-11", "09:00", 5, 1200),
	})
	s.Require().NoError(err)

	s.Len(s.store.slots, 1)
	s.Equal(5, s.store.slots[id].total)
	s.Equal(int64(1200), s.store.slots[id].price)
	// Committed count survives a reshape.
	s.Equal(1, s.store.slots[id].committed)
}

func (s *ScheduleUseCaseTestSuite) TestUpsertSlotsValidation() {
	s.Run("empty list", func() {
		err := s.uc.UpsertSlots(context.Background(), nil)
		s.True(errs.Is(err, errs.ErrEmptySelection))
	})

	s.Run("non-positive capacity", func() {
		err := s.uc.UpsertSlots(context.Background(), []commands.ScheduleEntry{
			s.entry("2025-05-11", "09:00", 0, 1000),
		})
		s.Error(err)
		s.Empty(s.store.slots)
	})
}
