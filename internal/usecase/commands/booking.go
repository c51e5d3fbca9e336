package commands

import (
	"context"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/event"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/guard"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Reserve books an Available room for guest. Concurrent reservations of the same
// room are serialized; only the first one finds the room Available.
func (w *Workflow) Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error) {
	guest, err := room.NewGuestName(in.GuestName)
	if err != nil {
		return nil, validation(err)
	}

	return guard.WithExclusiveAccess(ctx, w.guard, in.RoomID, func(ctx context.Context) (*ReserveResult, error) {
		var (
			r   *room.Room
			b   *booking.Booking
			now time.Time
		)
		err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			if r, err = loadRoom(ctx, tx.Rooms(), in.RoomID); err != nil {
				return err
			}
			now = w.clock.Now()
			if err := r.Book(guest, now); err != nil {
				return err
			}
			stale, err := tx.Bookings().FindActiveByRoom(ctx, r.ID())
			if err != nil {
				return err
			}
			if stale != nil {
				return errs.Mark(
					errs.Newf("available room %s already has active booking %s", r.ID(), stale.ID()),
					errs.ErrInvariantViolated,
				)
			}
			b = booking.NewBooking(r.ID(), guest, now)
			if err := tx.Rooms().Put(ctx, r); err != nil {
				return err
			}
			return tx.Bookings().Append(ctx, b)
		})
		if err != nil {
			return nil, classify(err, errs.ErrInvariantViolated)
		}

		w.publisher.Publish(event.NewRoomBooked(r.ID(), guest.String(), now))
		w.logger.Info("room booked", "room_id", r.ID(), "booking_id", b.ID())

		return &ReserveResult{
			Booking: queries.NewBookingView(b, r),
			Room:    queries.NewRoomView(r),
		}, nil
	})
}

// CancelBooking cancels an active booking on the admin's behalf and frees its room.
func (w *Workflow) CancelBooking(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error) {
	// The room id of a booking never changes, so it is safe to read it before locking.
	found, err := loadBooking(ctx, w.uow.Reads().Bookings(), bookingID)
	if err != nil {
		return nil, classify(err, nil)
	}

	return guard.WithExclusiveAccess(ctx, w.guard, found.RoomID(), func(ctx context.Context) (*queries.BookingView, error) {
		var (
			r   *room.Room
			b   *booking.Booking
			now time.Time
		)
		err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			if b, err = loadBooking(ctx, tx.Bookings(), bookingID); err != nil {
				return err
			}
			if !b.IsActive() {
				return errs.Wrapf(booking.ErrAlreadyCancelled, "booking %s", b.ID())
			}
			r, err = tx.Rooms().Get(ctx, b.RoomID())
			if err != nil {
				return errs.Mark(
					errs.Wrapf(err, "active booking %s references missing room %s", b.ID(), b.RoomID()),
					errs.ErrInvariantViolated,
				)
			}
			if !r.IsBooked() {
				return errs.Mark(
					errs.Newf("active booking %s but room %s is %s", b.ID(), r.ID(), r.State()),
					errs.ErrInvariantViolated,
				)
			}
			now = w.clock.Now()
			if err := r.Release(now); err != nil {
				return err
			}
			if err := tx.Rooms().Put(ctx, r); err != nil {
				return err
			}
			return cancelBooking(ctx, tx, b, booking.CancelReasonAdmin, now)
		})
		if err != nil {
			return nil, classify(err, nil)
		}

		w.publisher.Publish(event.NewRoomUnbooked(r.ID(), now))
		w.logger.Info("booking cancelled", "room_id", r.ID(), "booking_id", b.ID(), "reason", booking.CancelReasonAdmin)

		return queries.NewBookingView(b, r), nil
	})
}
