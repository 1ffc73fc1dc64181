package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	bookingdomain "slot-booking/internal/domain/booking"
	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/domain/slot"
	"slot-booking/internal/infra"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/shared"
)

type ConfirmBookingResult struct {
	Booking    *shared.BookingSnapshot
	IsReplayed bool
}

type BookingCommands interface {
	// ConfirmBooking converts a settled payment into a permanent booking.
	// Exactly one booking ever exists per payment intent; repeat calls return
	// the original booking unchanged.
	ConfirmBooking(ctx context.Context, paymentIntentID, customerRef string) (*ConfirmBookingResult, error)
}

type bookingUseCaseImpl struct {
	uow         shared.UnitOfWork
	gateway     PaymentGateway
	invalidator AvailabilityInvalidator
	clock       clock.Clock
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	invalidator AvailabilityInvalidator,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:         uow,
		gateway:     gateway,
		invalidator: invalidator,
		clock:       clk,
	}
}

func (b *bookingUseCaseImpl) ConfirmBooking(ctx context.Context, paymentIntentID, customerRef string) (*ConfirmBookingResult, error) {
	if paymentIntentID == "" || customerRef == "" {
		return nil, errs.ErrEmptySelection
	}

	// Settlement is verified against the processor itself, not the cached
	// status column, so a stale "succeeded" can never mint a booking.
	intent, err := b.gateway.RetrieveIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentStatusUnavailable)
	}
	if !intent.Status.Settled() {
		if intent.Status.Definitive() {
			return nil, errs.ErrPaymentFailed
		}
		return nil, errs.ErrPaymentNotSettled
	}

	now := b.clock.Now()
	var result *ConfirmBookingResult

	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if existing, err := tx.Bookings().FindByPaymentIntent(ctx, paymentIntentID); err == nil {
			result = &ConfirmBookingResult{Booking: existing, IsReplayed: true}
			return nil
		} else if !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		rec, err := tx.PaymentIntents().FindByID(ctx, paymentIntentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrPaymentIntentNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.PaymentIntents().UpdateStatus(ctx, rec.ID, intent.Status, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		session, err := lockSession(ctx, tx, rec.SessionID)
		if err != nil {
			return err
		}
		if session.State() == checkout.StateAbandoned || session.State() == checkout.StatePaymentFailed {
			return errs.ErrSessionTerminal
		}

		holds, err := tx.Holds().ActiveBySession(ctx, session.ID(), now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !coversSlots(holds, rec.SlotIDs) {
			// Paid, but at least one of the slots the amount covered is no
			// longer held. Booking only the surviving subset would charge the
			// customer for slots they never get, so the whole commit is
			// refused and the settled amount left for out-of-band resolution.
			return errs.ErrHoldExpired
		}

		if session.State() == checkout.StateAwaitingPayment {
			if err := session.MarkPaid(now); err != nil {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
		}

		slotIDs := rec.SlotIDs
		slots, err := tx.Slots().LockByIDs(ctx, slotIDs)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Slots().IncrementCommitted(ctx, slotIDs); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrCapacityExceeded)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		booked, err := bookingdomain.New(paymentIntentID, customerRef, slotKeysOf(slots), rec.AmountCents, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Bookings().Create(ctx, booked, slotIDs); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				// Lost a race with a concurrent confirm; replay its result.
				existing, findErr := tx.Bookings().FindByPaymentIntent(ctx, paymentIntentID)
				if findErr != nil {
					return errs.Mark(findErr, errs.ErrDatabaseOperationFailed)
				}
				result = &ConfirmBookingResult{Booking: existing, IsReplayed: true}
				return nil
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if _, err := tx.Holds().DeleteBySession(ctx, session.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := session.MarkCommitted(now); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Sessions().Save(ctx, session); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := b.enqueueConfirmationJob(ctx, tx, booked, now); err != nil {
			return err
		}

		result = &ConfirmBookingResult{
			Booking: &shared.BookingSnapshot{
				ID:              booked.ID(),
				PaymentIntentID: booked.PaymentIntentID(),
				CustomerRef:     booked.CustomerRef(),
				AmountCents:     booked.AmountCents(),
				SlotKeys:        booked.SlotKeys(),
				CreatedAt:       booked.CreatedAt(),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.IsReplayed {
		b.invalidator.Invalidate(ctx)
	}
	return result, nil
}

// enqueueConfirmationJob rides the commit transaction, so the email is queued
// if and only if the booking exists.
func (b *bookingUseCaseImpl) enqueueConfirmationJob(ctx context.Context, tx shared.Tx, booked *bookingdomain.Booking, now time.Time) error {
	labels := make([]string, 0, len(booked.SlotKeys()))
	for _, k := range booked.SlotKeys() {
		labels = append(labels, k.String())
	}
	payload, err := json.Marshal(map[string]any{
		"booking_id":   booked.ID().String(),
		"customer_ref": booked.CustomerRef(),
		"amount_cents": booked.AmountCents(),
		"slots":        labels,
	})
	if err != nil {
		slog.Error("failed to marshal confirmation payload", "booking_id", booked.ID().String(), "error", err.Error())
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := tx.Notifications().CreateJob(ctx, "email", "booking_confirmed", payload, now); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func slotKeysOf(slots []*slot.Slot) []slot.Key {
	keys := make([]slot.Key, len(slots))
	for i, s := range slots {
		keys[i] = s.Key()
	}
	return keys
}
