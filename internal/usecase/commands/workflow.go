// Package commands holds every operation that mutates rooms or bookings.
//
// Each operation takes the room's guard, validates against committed state,
// writes store and ledger in one unit of work, and publishes its event before
// the guard is released so that events for one room leave in commit order.
package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/guard"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Workflow struct {
	uow       shared.UnitOfWork
	publisher shared.Publisher
	guard     *guard.Guard[uuid.UUID]
	clock     clock.Clock
	logger    *slog.Logger
}

func NewWorkflow(uow shared.UnitOfWork, publisher shared.Publisher, clk clock.Clock, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		uow:       uow,
		publisher: publisher,
		guard:     guard.New(compareIDs),
		clock:     clk,
		logger:    logger,
	}
}

// catalogKey is held by CreateRoom and ResetAll so a reset sees every room.
// uuid.Nil is never a room id and sorts before all of them.
var catalogKey = uuid.Nil

var errRoomSetChanged = errors.New("room set changed while acquiring locks")

var (
	_ RoomCommands    = (*Workflow)(nil)
	_ BookingCommands = (*Workflow)(nil)
)

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

func validation(err error) error {
	return errs.Mark(err, errs.ErrValidation)
}

func loadRoom(ctx context.Context, rooms shared.RoomReader, id uuid.UUID) (*room.Room, error) {
	r, err := rooms.Get(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return nil, err
	}
	return r, nil
}

func loadBooking(ctx context.Context, bookings shared.BookingReader, id uuid.UUID) (*booking.Booking, error) {
	b, err := bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}
	return b, nil
}

// requireActive returns the room's active booking; a booked room without one breaks
// the booked-iff-active-booking rule.
func requireActive(ctx context.Context, tx shared.Tx, r *room.Room) (*booking.Booking, error) {
	active, err := tx.Bookings().FindActiveByRoom(ctx, r.ID())
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, errs.Mark(
			errs.Newf("room %s is booked but has no active booking", r.ID()),
			errs.ErrInvariantViolated,
		)
	}
	return active, nil
}

func cancelBooking(ctx context.Context, tx shared.Tx, b *booking.Booking, reason booking.CancelReason, now time.Time) error {
	if err := b.Cancel(reason, now); err != nil {
		return err
	}
	return tx.Bookings().MarkCancelled(ctx, b)
}

// classify maps a failed operation onto the usecase sentinels. duplicate is the
// sentinel a DUPLICATE_KEY means for this operation.
func classify(err error, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, errs.ErrRoomNotFound),
		errors.Is(err, errs.ErrBookingNotFound),
		errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrInvariantViolated):
		return err
	}
	if _, ok := room.AsConflict(err); ok {
		return errs.Mark(err, errs.ErrConflict)
	}
	if errors.Is(err, booking.ErrAlreadyCancelled) {
		return errs.Mark(err, errs.ErrConflict)
	}
	if infra.IsKind(err, infra.KindDuplicateKey) && duplicate != nil {
		return errs.Mark(err, duplicate)
	}
	if infra.IsKind(err, infra.KindConflict) {
		return errs.Mark(err, errs.ErrConflict)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
