package commands

import (
	"context"
	"log/slog"
	"time"

	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/infra"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type IntentResult struct {
	PaymentIntentID string
	ClientSecret    string
	AmountCents     int64
	IsReplayed      bool
}

type RefreshResult struct {
	PaymentStatus checkout.PaymentStatus
	SessionState  checkout.State
}

type PaymentCommands interface {
	// CreateIntent computes the total from the session's active holds and
	// opens a payment intent at the processor for exactly that amount.
	// Calling it again on the same session re-serves the existing intent.
	CreateIntent(ctx context.Context, sessionID uuid.UUID) (*IntentResult, error)
	// RefreshStatus polls the processor and advances the session state
	// machine accordingly.
	RefreshStatus(ctx context.Context, sessionID uuid.UUID) (*RefreshResult, error)
}

type paymentUseCaseImpl struct {
	uow         shared.UnitOfWork
	gateway     PaymentGateway
	invalidator AvailabilityInvalidator
	clock       clock.Clock
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	invalidator AvailabilityInvalidator,
	clk clock.Clock,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:         uow,
		gateway:     gateway,
		invalidator: invalidator,
		clock:       clk,
	}
}

type intentQuote struct {
	amountCents int64
	slotIDs     []uuid.UUID
	slotLabels  []string
	replay      *IntentResult
}

func (p *paymentUseCaseImpl) CreateIntent(ctx context.Context, sessionID uuid.UUID) (*IntentResult, error) {
	quote, err := p.quoteSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if quote.replay != nil {
		return quote.replay, nil
	}

	// The processor call stays outside any transaction; an intent is worthless
	// until it is bound to the session, so a crash here leaks nothing locally.
	metadata := map[string]string{"session_id": sessionID.String()}
	for i, label := range quote.slotLabels {
		if i >= 10 {
			break
		}
		metadata["slot_"+label] = "1"
	}
	intent, err := p.gateway.CreateIntent(ctx, quote.amountCents, metadata)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentStatusUnavailable)
	}

	result, err := p.bindIntent(ctx, sessionID, quote, intent)
	if err != nil {
		slog.Error("payment intent created but not bound to session",
			"session_id", sessionID.String(),
			"payment_intent_id", intent.ID,
			"error", err.Error())
		return nil, err
	}
	return result, nil
}

// quoteSession verifies the session can start payment and prices its holds.
func (p *paymentUseCaseImpl) quoteSession(ctx context.Context, sessionID uuid.UUID) (*intentQuote, error) {
	now := p.clock.Now()
	var quote intentQuote

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		session, err := lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if session.State() == checkout.StateAwaitingPayment && session.PaymentIntentID() != nil {
			rec, err := tx.PaymentIntents().FindByID(ctx, *session.PaymentIntentID())
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			quote.replay = &IntentResult{
				PaymentIntentID: rec.ID,
				ClientSecret:    rec.ClientSecret,
				AmountCents:     rec.AmountCents,
				IsReplayed:      true,
			}
			return nil
		}
		if session.State().IsTerminal() {
			return errs.ErrSessionTerminal
		}
		if session.State() != checkout.StateSelecting {
			return errs.ErrInvalidTransition
		}

		amount, slotIDs, labels, err := priceActiveHolds(ctx, tx, session.ID(), now)
		if err != nil {
			return err
		}
		quote.amountCents = amount
		quote.slotIDs = slotIDs
		quote.slotLabels = labels
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// bindIntent records the processor intent and moves the session to
// AwaitingPayment, re-verifying that every slot the amount was priced over is
// still held. A single lapse during the processor round trip would bind an
// intent charging for more slots than the session holds, so any shortfall
// aborts the bind.
func (p *paymentUseCaseImpl) bindIntent(ctx context.Context, sessionID uuid.UUID, quote *intentQuote, intent *GatewayIntent) (*IntentResult, error) {
	now := p.clock.Now()

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		session, err := lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session.State() != checkout.StateSelecting {
			return errs.ErrInvalidTransition
		}

		holds, err := tx.Holds().ActiveBySession(ctx, session.ID(), now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !coversSlots(holds, quote.slotIDs) {
			return errs.ErrHoldExpired
		}

		rec := shared.PaymentIntentRecord{
			ID:           intent.ID,
			SessionID:    session.ID(),
			AmountCents:  intent.AmountCents,
			SlotIDs:      quote.slotIDs,
			Status:       intent.Status,
			ClientSecret: intent.ClientSecret,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.PaymentIntents().Create(ctx, rec); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := session.BeginPayment(intent.ID, intent.AmountCents, now); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Sessions().Save(ctx, session); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &IntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     intent.AmountCents,
	}, nil
}

func (p *paymentUseCaseImpl) RefreshStatus(ctx context.Context, sessionID uuid.UUID) (*RefreshResult, error) {
	intentID, err := p.intentIDOf(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	intent, err := p.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentStatusUnavailable)
	}

	now := p.clock.Now()
	var result RefreshResult
	releasedHolds := false

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		session, err := lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if err := tx.PaymentIntents().UpdateStatus(ctx, intentID, intent.Status, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if session.State() == checkout.StateAwaitingPayment {
			switch {
			case intent.Status.Settled():
				if err := session.MarkPaid(now); err != nil {
					return errs.Mark(err, errs.ErrInvalidTransition)
				}
				if err := tx.Sessions().Save(ctx, session); err != nil {
					return errs.Mark(err, errs.ErrDatabaseOperationFailed)
				}
			case intent.Status.Definitive():
				if err := session.MarkPaymentFailed(now); err != nil {
					return errs.Mark(err, errs.ErrInvalidTransition)
				}
				if err := tx.Sessions().Save(ctx, session); err != nil {
					return errs.Mark(err, errs.ErrDatabaseOperationFailed)
				}
				if _, err := tx.Holds().DeleteBySession(ctx, session.ID()); err != nil {
					return errs.Mark(err, errs.ErrDatabaseOperationFailed)
				}
				releasedHolds = true
			}
		}

		result = RefreshResult{
			PaymentStatus: intent.Status,
			SessionState:  session.State(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if releasedHolds {
		p.invalidator.Invalidate(ctx)
	}
	return &result, nil
}

func (p *paymentUseCaseImpl) intentIDOf(ctx context.Context, sessionID uuid.UUID) (string, error) {
	var intentID string
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		session, err := lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session.PaymentIntentID() == nil {
			return errs.ErrPaymentIntentNotFound
		}
		intentID = *session.PaymentIntentID()
		return nil
	})
	if err != nil {
		return "", err
	}
	return intentID, nil
}

func lockSession(ctx context.Context, tx shared.Tx, sessionID uuid.UUID) (*checkout.Session, error) {
	session, err := tx.Sessions().LockByID(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return session, nil
}

// priceActiveHolds totals the per-slot prices of the session's live holds and
// returns the slot set the total covers. The amount is derived entirely
// server-side; no client figure is trusted.
func priceActiveHolds(ctx context.Context, tx shared.Tx, sessionID uuid.UUID, now time.Time) (int64, []uuid.UUID, []string, error) {
	holds, err := tx.Holds().ActiveBySession(ctx, sessionID, now)
	if err != nil {
		return 0, nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(holds) == 0 {
		return 0, nil, nil, errs.ErrNoActiveHolds
	}

	slotIDs := make([]uuid.UUID, len(holds))
	for i, h := range holds {
		slotIDs[i] = h.SlotID
	}
	slots, err := tx.Slots().LockByIDs(ctx, slotIDs)
	if err != nil {
		return 0, nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var total int64
	labels := make([]string, len(slots))
	for i, s := range slots {
		total += s.PriceCents()
		labels[i] = s.Key().String()
	}
	return total, slotIDs, labels, nil
}

// coversSlots reports whether every wanted slot id is backed by one of the
// given holds.
func coversSlots(holds []checkout.Hold, wanted []uuid.UUID) bool {
	held := make(map[uuid.UUID]bool, len(holds))
	for _, h := range holds {
		held[h.SlotID] = true
	}
	for _, id := range wanted {
		if !held[id] {
			return false
		}
	}
	return true
}
