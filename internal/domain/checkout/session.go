package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrTerminalState     = errors.New("session is in a terminal state")
	ErrNoPaymentIntent   = errors.New("session has no payment intent")
)

type State string

const (
	StateSelecting       State = "selecting"
	StateAwaitingPayment State = "awaiting_payment"
	StatePaid            State = "paid"
	StateCommitted       State = "committed"
	StateAbandoned       State = "abandoned"
	StatePaymentFailed   State = "payment_failed"
)

// transitions encodes the checkout lifecycle. Committed, Abandoned and
// PaymentFailed are terminal; no transition may skip a state.
var transitions = map[State][]State{
	StateSelecting:       {StateAwaitingPayment, StateAbandoned},
	StateAwaitingPayment: {StatePaid, StatePaymentFailed, StateAbandoned},
	StatePaid:            {StateCommitted},
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return s == StateCommitted || s == StateAbandoned || s == StatePaymentFailed
}

func ParseState(raw string) (State, error) {
	switch State(raw) {
	case StateSelecting, StateAwaitingPayment, StatePaid, StateCommitted,
		StateAbandoned, StatePaymentFailed:
		return State(raw), nil
	}
	return "", errors.New("unknown session state: " + raw)
}

// Session groups the holds of one checkout attempt with at most one payment
// intent. The engine owns all state changes; callers only ever see the id.
type Session struct {
	id              uuid.UUID
	state           State
	amountCents     *int64
	paymentIntentID *string
	createdAt       time.Time
	updatedAt       time.Time
}

func NewSession(id uuid.UUID, now time.Time) *Session {
	return &Session{
		id:        id,
		state:     StateSelecting,
		createdAt: now,
		updatedAt: now,
	}
}

func Restore(id uuid.UUID, state State, amountCents *int64, paymentIntentID *string, createdAt, updatedAt time.Time) *Session {
	return &Session{
		id:              id,
		state:           state,
		amountCents:     amountCents,
		paymentIntentID: paymentIntentID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Session) AmountCents() *int64 {
	return s.amountCents
}

func (s *Session) PaymentIntentID() *string {
	return s.paymentIntentID
}

func (s *Session) transition(next State, now time.Time) error {
	if s.state.IsTerminal() {
		return ErrTerminalState
	}
	if !s.state.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	s.state = next
	s.updatedAt = now
	return nil
}

// BeginPayment binds the processor intent to the session and moves it to
// AwaitingPayment. The amount is the server-computed total, never client input.
func (s *Session) BeginPayment(paymentIntentID string, amountCents int64, now time.Time) error {
	if err := s.transition(StateAwaitingPayment, now); err != nil {
		return err
	}
	s.paymentIntentID = &paymentIntentID
	s.amountCents = &amountCents
	return nil
}

func (s *Session) MarkPaid(now time.Time) error {
	if s.paymentIntentID == nil {
		return ErrNoPaymentIntent
	}
	return s.transition(StatePaid, now)
}

func (s *Session) MarkCommitted(now time.Time) error {
	return s.transition(StateCommitted, now)
}

func (s *Session) MarkPaymentFailed(now time.Time) error {
	return s.transition(StatePaymentFailed, now)
}

func (s *Session) Abandon(now time.Time) error {
	return s.transition(StateAbandoned, now)
}
