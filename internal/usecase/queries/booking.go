package queries

import (
	"context"
	"slices"
	"strings"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

//go:generate mockgen -source=booking.go -destination=../../mock/queries/booking.go -package=queriesmock

type BookingQueries interface {
	// ListBookings returns every booking, newest first, cancelled ones included.
	ListBookings(ctx context.Context) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewBookingQueries(uow shared.UnitOfWork) BookingQueries {
	return &bookingQueriesImpl{uow: uow}
}

func (q *bookingQueriesImpl) ListBookings(ctx context.Context) ([]*BookingView, error) {
	reads := q.uow.Reads()

	bookings, err := reads.Bookings().ListAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	rooms, err := reads.Rooms().ListAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	byID := lo.KeyBy(rooms, func(r *room.Room) uuid.UUID { return r.ID() })

	views := lo.Map(bookings, func(b *booking.Booking, _ int) *BookingView {
		return NewBookingView(b, byID[b.RoomID()])
	})
	slices.SortStableFunc(views, func(a, b *BookingView) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	return views, nil
}
