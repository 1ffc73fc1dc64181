//go:build unit

package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingdomain "slot-booking/internal/domain/booking"
	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/domain/slot"
	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"
	"slot-booking/internal/usecase/commands"
	"slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory fakes backing the command tests. They enforce the same uniqueness
// and conflict rules as the SQL layer so the usecases can be exercised
// end to end without a database.

type slotRec struct {
	id        uuid.UUID
	key       slot.Key
	total     int
	committed int
	price     int64
}

type fakeStore struct {
	mu       sync.Mutex
	slots    map[uuid.UUID]*slotRec
	holds    []checkout.Hold
	sessions map[uuid.UUID]*checkout.Session
	intents  map[string]shared.PaymentIntentRecord
	bookings map[string]*shared.BookingSnapshot
	jobs     []shared.NotificationJob
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:    make(map[uuid.UUID]*slotRec),
		sessions: make(map[uuid.UUID]*checkout.Session),
		intents:  make(map[string]shared.PaymentIntentRecord),
		bookings: make(map[string]*shared.BookingSnapshot),
	}
}

func (f *fakeStore) addSlot(key slot.Key, total, committed int, price int64) uuid.UUID {
	id := uuid.New()
	f.slots[id] = &slotRec{id: id, key: key, total: total, committed: committed, price: price}
	return id
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Slots() shared.SlotRepository            { return &fakeSlotRepo{t.store} }
func (t *fakeTx) Holds() shared.HoldRepository            { return &fakeHoldRepo{t.store} }
func (t *fakeTx) Sessions() shared.SessionRepository      { return &fakeSessionRepo{t.store} }
func (t *fakeTx) PaymentIntents() shared.PaymentIntentRepository {
	return &fakePaymentIntentRepo{t.store}
}
func (t *fakeTx) Bookings() shared.BookingRepository           { return &fakeBookingRepo{t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotificationRepo{t.store} }

type fakeSlotRepo struct{ store *fakeStore }

func (r *fakeSlotRepo) LockByKeys(_ context.Context, keys []slot.Key) ([]*slot.Slot, error) {
	var out []*slot.Slot
	for _, k := range keys {
		found := false
		for _, rec := range r.store.slots {
			if rec.key.String() == k.String() {
				s, err := slot.New(rec.id, rec.key, rec.total, rec.committed, rec.price)
				if err != nil {
					return nil, err
				}
				out = append(out, s)
				found = true
				break
			}
		}
		if !found {
			return nil, infra.WrapRepoErr("one or more slots do not exist", nil, infra.KindNotFound)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeSlotRepo) LockByIDs(_ context.Context, ids []uuid.UUID) ([]*slot.Slot, error) {
	var out []*slot.Slot
	for _, id := range ids {
		rec, ok := r.store.slots[id]
		if !ok {
			return nil, infra.WrapRepoErr("one or more slots do not exist", nil, infra.KindNotFound)
		}
		s, err := slot.New(rec.id, rec.key, rec.total, rec.committed, rec.price)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeSlotRepo) IncrementCommitted(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		rec, ok := r.store.slots[id]
		if !ok || rec.committed >= rec.total {
			return infra.WrapRepoErr("slot capacity would be exceeded", nil, infra.KindConflict)
		}
	}
	for _, id := range ids {
		r.store.slots[id].committed++
	}
	return nil
}

func (r *fakeSlotRepo) Upsert(_ context.Context, key slot.Key, totalCapacity int, priceCents int64) (uuid.UUID, error) {
	for _, rec := range r.store.slots {
		if rec.key.String() == key.String() {
			rec.total = totalCapacity
			rec.price = priceCents
			return rec.id, nil
		}
	}
	return r.store.addSlot(key, totalCapacity, 0, priceCents), nil
}

type fakeHoldRepo struct{ store *fakeStore }

func (r *fakeHoldRepo) ActiveCountBySlot(_ context.Context, slotIDs []uuid.UUID, now time.Time) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	for _, h := range r.store.holds {
		if h.Active(now) {
			counts[h.SlotID]++
		}
	}
	out := make(map[uuid.UUID]int, len(slotIDs))
	for _, id := range slotIDs {
		out[id] = counts[id]
	}
	return out, nil
}

func (r *fakeHoldRepo) CreateBatch(_ context.Context, holds []checkout.Hold) error {
	for _, h := range holds {
		for _, existing := range r.store.holds {
			if existing.SlotID == h.SlotID && existing.SessionID == h.SessionID {
				return infra.WrapRepoErr("hold already exists for slot and session", nil, infra.KindDuplicateKey)
			}
		}
		r.store.holds = append(r.store.holds, h)
	}
	return nil
}

func (r *fakeHoldRepo) ActiveBySession(_ context.Context, sessionID uuid.UUID, now time.Time) ([]checkout.Hold, error) {
	var out []checkout.Hold
	for _, h := range r.store.holds {
		if h.SessionID == sessionID && h.Active(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHoldRepo) DeleteBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	var kept []checkout.Hold
	var removed int64
	for _, h := range r.store.holds {
		if h.SessionID == sessionID {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	r.store.holds = kept
	return removed, nil
}

func (r *fakeHoldRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var kept []checkout.Hold
	var removed int64
	for _, h := range r.store.holds {
		if !h.Active(now) {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	r.store.holds = kept
	return removed, nil
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(_ context.Context, s *checkout.Session) error {
	if _, ok := r.store.sessions[s.ID()]; ok {
		return infra.WrapRepoErr("session already exists", nil, infra.KindDuplicateKey)
	}
	r.store.sessions[s.ID()] = s
	return nil
}

func (r *fakeSessionRepo) LockByID(_ context.Context, id uuid.UUID) (*checkout.Session, error) {
	s, ok := r.store.sessions[id]
	if !ok {
		return nil, infra.WrapRepoErr("session does not exist", nil, infra.KindNotFound)
	}
	return s, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, s *checkout.Session) error {
	if _, ok := r.store.sessions[s.ID()]; !ok {
		return infra.WrapRepoErr("session does not exist", nil, infra.KindNotFound)
	}
	r.store.sessions[s.ID()] = s
	return nil
}

func (r *fakeSessionRepo) AbandonStale(_ context.Context, now time.Time) (int64, error) {
	var abandoned int64
	for _, s := range r.store.sessions {
		if s.State().IsTerminal() {
			continue
		}
		var newest time.Time
		hasHolds := false
		for _, h := range r.store.holds {
			if h.SessionID == s.ID() {
				hasHolds = true
				if h.ExpiresAt.After(newest) {
					newest = h.ExpiresAt
				}
			}
		}
		if hasHolds && !newest.After(now) {
			if err := s.Abandon(now); err == nil {
				abandoned++
			}
		}
	}
	return abandoned, nil
}

type fakePaymentIntentRepo struct{ store *fakeStore }

func (r *fakePaymentIntentRepo) Create(_ context.Context, rec shared.PaymentIntentRecord) error {
	if _, ok := r.store.intents[rec.ID]; ok {
		return infra.WrapRepoErr("payment intent already recorded", nil, infra.KindDuplicateKey)
	}
	r.store.intents[rec.ID] = rec
	return nil
}

func (r *fakePaymentIntentRepo) FindByID(_ context.Context, id string) (*shared.PaymentIntentRecord, error) {
	rec, ok := r.store.intents[id]
	if !ok {
		return nil, infra.WrapRepoErr("payment intent does not exist", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (r *fakePaymentIntentRepo) UpdateStatus(_ context.Context, id string, status checkout.PaymentStatus, now time.Time) error {
	rec, ok := r.store.intents[id]
	if !ok {
		return infra.WrapRepoErr("payment intent does not exist", nil, infra.KindNotFound)
	}
	rec.Status = status
	rec.UpdatedAt = now
	r.store.intents[id] = rec
	return nil
}

type fakeBookingRepo struct{ store *fakeStore }

func (r *fakeBookingRepo) Create(_ context.Context, b *bookingdomain.Booking, slotIDs []uuid.UUID) error {
	if _, ok := r.store.bookings[b.PaymentIntentID()]; ok {
		return infra.WrapRepoErr("booking already exists for payment intent", nil, infra.KindDuplicateKey)
	}
	r.store.bookings[b.PaymentIntentID()] = &shared.BookingSnapshot{
		ID:              b.ID(),
		PaymentIntentID: b.PaymentIntentID(),
		CustomerRef:     b.CustomerRef(),
		AmountCents:     b.AmountCents(),
		SlotKeys:        b.SlotKeys(),
		CreatedAt:       b.CreatedAt(),
	}
	return nil
}

func (r *fakeBookingRepo) FindByPaymentIntent(_ context.Context, paymentIntentID string) (*shared.BookingSnapshot, error) {
	snap, ok := r.store.bookings[paymentIntentID]
	if !ok {
		return nil, infra.WrapRepoErr("booking does not exist", nil, infra.KindNotFound)
	}
	return snap, nil
}

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.store.jobs = append(r.store.jobs, shared.NotificationJob{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   runAt,
	})
	return nil
}

func (r *fakeNotificationRepo) ClaimDue(_ context.Context, now, _ time.Time, limit int) ([]shared.NotificationJob, error) {
	var out []shared.NotificationJob
	for _, j := range r.store.jobs {
		if !j.RunAt.After(now) && len(out) < limit {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkDone(_ context.Context, id uuid.UUID) error { return nil }
func (r *fakeNotificationRepo) Reschedule(_ context.Context, id uuid.UUID, runAt time.Time) error {
	return nil
}
func (r *fakeNotificationRepo) MarkDead(_ context.Context, id uuid.UUID) error { return nil }

type fakeGateway struct {
	createFn   func(amountCents int64, metadata map[string]string) (*commands.GatewayIntent, error)
	retrieveFn func(id string) (*commands.GatewayIntent, error)
	created    []int64
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountCents int64, metadata map[string]string) (*commands.GatewayIntent, error) {
	g.created = append(g.created, amountCents)
	return g.createFn(amountCents, metadata)
}

func (g *fakeGateway) RetrieveIntent(_ context.Context, id string) (*commands.GatewayIntent, error) {
	return g.retrieveFn(id)
}

type fakeInvalidator struct {
	calls int
}

func (i *fakeInvalidator) Invalidate(_ context.Context) {
	i.calls++
}

func sortSlots(slots []*slot.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Key().String() < slots[j].Key().String()
	})
}
