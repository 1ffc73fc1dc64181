package queries

import (
	"context"

	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"
	"slot-booking/internal/infra/readstore"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingQueries interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*readstore.BookingView, error)
	SessionByID(ctx context.Context, id uuid.UUID) (*readstore.SessionView, error)
}

type bookingQueriesImpl struct {
	uow          shared.UnitOfWork
	bookingStore *readstore.BookingReadStore
	sessionStore *readstore.SessionReadStore
	clock        clock.Clock
}

func NewBookingQueries(
	uow shared.UnitOfWork,
	bookingStore *readstore.BookingReadStore,
	sessionStore *readstore.SessionReadStore,
	clk clock.Clock,
) BookingQueries {
	return &bookingQueriesImpl{
		uow:          uow,
		bookingStore: bookingStore,
		sessionStore: sessionStore,
		clock:        clk,
	}
}

func (q *bookingQueriesImpl) BookingByID(ctx context.Context, id uuid.UUID) (*readstore.BookingView, error) {
	var view *readstore.BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		view, err = q.bookingStore.FindByID(ctx, dbtx, id)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *bookingQueriesImpl) SessionByID(ctx context.Context, id uuid.UUID) (*readstore.SessionView, error) {
	now := q.clock.Now()
	var view *readstore.SessionView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		view, err = q.sessionStore.FindByID(ctx, dbtx, id, now)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}
