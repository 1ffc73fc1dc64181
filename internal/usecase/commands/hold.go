package commands

import (
	"context"
	"sort"
	"time"

	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/domain/slot"
	"slot-booking/internal/infra"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type PlaceHoldsResult struct {
	SessionID uuid.UUID
	ExpiresAt time.Time
	Held      []slot.Key
}

type HoldCommands interface {
	// PlaceHolds reserves every requested slot for the session, or none of
	// them. A nil sessionID starts a new checkout session.
	PlaceHolds(ctx context.Context, sessionID *uuid.UUID, keys []slot.Key) (*PlaceHoldsResult, error)
	// ReleaseHolds drops all holds of the session. Safe to call repeatedly.
	ReleaseHolds(ctx context.Context, sessionID uuid.UUID) error
}

type holdUseCaseImpl struct {
	uow         shared.UnitOfWork
	invalidator AvailabilityInvalidator
	clock       clock.Clock
	cfg         config.BookingConfig
}

func NewHoldUseCase(
	uow shared.UnitOfWork,
	invalidator AvailabilityInvalidator,
	clk clock.Clock,
	cfg config.BookingConfig,
) HoldCommands {
	return &holdUseCaseImpl{
		uow:         uow,
		invalidator: invalidator,
		clock:       clk,
		cfg:         cfg,
	}
}

func (h *holdUseCaseImpl) PlaceHolds(ctx context.Context, sessionID *uuid.UUID, keys []slot.Key) (*PlaceHoldsResult, error) {
	now := h.clock.Now()

	keys = dedupeKeys(keys)
	if len(keys) == 0 {
		return nil, errs.ErrEmptySelection
	}
	for _, k := range keys {
		if err := k.ValidateBookable(now, h.cfg.HorizonDays); err != nil {
			switch err {
			case slot.ErrDateInPast:
				return nil, errs.Mark(err, errs.ErrSlotInPast)
			case slot.ErrBeyondHorizon:
				return nil, errs.Mark(err, errs.ErrSlotOutOfHorizon)
			default:
				return nil, errs.Mark(err, errs.ErrEmptySelection)
			}
		}
	}
	// Deterministic lock order across concurrent sessions
	sortKeys(keys)

	var result *PlaceHoldsResult
	err := h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		session, err := h.resolveSession(ctx, tx, sessionID, now)
		if err != nil {
			return err
		}

		slots, err := tx.Slots().LockByKeys(ctx, keys)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrSlotNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		slotIDs := make([]uuid.UUID, len(slots))
		for i, s := range slots {
			slotIDs[i] = s.ID()
		}

		counts, err := tx.Holds().ActiveCountBySlot(ctx, slotIDs, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Re-holding a slot already held by this session is a no-op.
		existing, err := tx.Holds().ActiveBySession(ctx, session.ID(), now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		alreadyHeld := make(map[uuid.UUID]bool, len(existing))
		for _, hold := range existing {
			alreadyHeld[hold.SlotID] = true
		}

		expiresAt := now.Add(h.cfg.HoldTTL)
		var holds []checkout.Hold
		var held []slot.Key
		for _, s := range slots {
			if alreadyHeld[s.ID()] {
				held = append(held, s.Key())
				continue
			}
			if !s.CanHold(counts[s.ID()], 1) {
				// Abort: either every requested slot is held or none is.
				return errs.ErrCapacityExceeded
			}
			holds = append(holds, checkout.NewHold(s.ID(), session.ID(), now, h.cfg.HoldTTL))
			held = append(held, s.Key())
		}

		if err := tx.Holds().CreateBatch(ctx, holds); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Earlier batches on this session keep their own deadlines, so the
		// session's effective expiry is the soonest across all active holds.
		soonest := expiresAt
		for _, hold := range existing {
			if hold.ExpiresAt.Before(soonest) {
				soonest = hold.ExpiresAt
			}
		}

		result = &PlaceHoldsResult{
			SessionID: session.ID(),
			ExpiresAt: soonest,
			Held:      held,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.invalidator.Invalidate(ctx)
	return result, nil
}

func (h *holdUseCaseImpl) ReleaseHolds(ctx context.Context, sessionID uuid.UUID) error {
	err := h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Sessions().LockByID(ctx, sessionID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrSessionNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if _, err := tx.Holds().DeleteBySession(ctx, sessionID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.invalidator.Invalidate(ctx)
	return nil
}

func (h *holdUseCaseImpl) resolveSession(ctx context.Context, tx shared.Tx, sessionID *uuid.UUID, now time.Time) (*checkout.Session, error) {
	if sessionID == nil {
		session := checkout.NewSession(uuid.New(), now)
		if err := tx.Sessions().Create(ctx, session); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return session, nil
	}

	session, err := tx.Sessions().LockByID(ctx, *sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if session.State().IsTerminal() {
		return nil, errs.ErrSessionTerminal
	}
	if session.State() != checkout.StateSelecting {
		return nil, errs.ErrIntentAlreadyBound
	}
	return session, nil
}

func dedupeKeys(keys []slot.Key) []slot.Key {
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if seen[k.String()] {
			continue
		}
		seen[k.String()] = true
		out = append(out, k)
	}
	return out
}

func sortKeys(keys []slot.Key) {
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].Date().Equal(keys[j].Date()) {
			return keys[i].Date().Before(keys[j].Date())
		}
		return keys[i].Label() < keys[j].Label()
	})
}
