package commands

import (
	"context"
	"errors"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/event"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/guard"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type roomDetails struct {
	number   room.Number
	category room.Category
	price    room.Price
}

func parseDetails(number, category string, price float64) (roomDetails, error) {
	n, err := room.NewNumber(number)
	if err != nil {
		return roomDetails{}, validation(err)
	}
	c, err := room.NewCategory(category)
	if err != nil {
		return roomDetails{}, validation(err)
	}
	p, err := room.NewPrice(price)
	if err != nil {
		return roomDetails{}, validation(err)
	}
	return roomDetails{number: n, category: c, price: p}, nil
}

func (w *Workflow) CreateRoom(ctx context.Context, in CreateRoomInput) (*queries.RoomView, error) {
	d, err := parseDetails(in.Number, in.Category, in.Price)
	if err != nil {
		return nil, err
	}
	r, err := room.NewRoom(d.number, d.category, d.price, in.Maintenance, w.clock.Now())
	if err != nil {
		return nil, validation(err)
	}

	keys := []uuid.UUID{catalogKey, r.ID()}
	return guard.WithExclusiveAccessAll(ctx, w.guard, keys, func(ctx context.Context) (*queries.RoomView, error) {
		err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Rooms().Put(ctx, r)
		})
		if err != nil {
			return nil, classify(err, errs.ErrDuplicateRoom)
		}

		w.publisher.Publish(event.NewRoomCreated(r, r.CreatedAt()))
		w.logger.Info("room created", "room_id", r.ID(), "number", r.Number().String(), "state", r.State())

		return queries.NewRoomView(r), nil
	})
}

func (w *Workflow) UpdateRoom(ctx context.Context, id uuid.UUID, in UpdateRoomInput) (*queries.RoomView, error) {
	var (
		number   *room.Number
		category *room.Category
		price    *room.Price
	)
	if in.Number != nil {
		n, err := room.NewNumber(*in.Number)
		if err != nil {
			return nil, validation(err)
		}
		number = &n
	}
	if in.Category != nil {
		c, err := room.NewCategory(*in.Category)
		if err != nil {
			return nil, validation(err)
		}
		category = &c
	}
	if in.Price != nil {
		p, err := room.NewPrice(*in.Price)
		if err != nil {
			return nil, validation(err)
		}
		price = &p
	}

	return guard.WithExclusiveAccess(ctx, w.guard, id, func(ctx context.Context) (*queries.RoomView, error) {
		var (
			r   *room.Room
			now time.Time
		)
		err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			if r, err = loadRoom(ctx, tx.Rooms(), id); err != nil {
				return err
			}
			now = w.clock.Now()
			err = r.UpdateDetails(
				lo.FromPtrOr(number, r.Number()),
				lo.FromPtrOr(category, r.Category()),
				lo.FromPtrOr(price, r.Price()),
				now,
			)
			if err != nil {
				return validation(err)
			}
			return tx.Rooms().Put(ctx, r)
		})
		if err != nil {
			return nil, classify(err, errs.ErrDuplicateRoom)
		}

		w.publisher.Publish(event.NewRoomUpdated(r, now))
		w.logger.Info("room updated", "room_id", r.ID())

		return queries.NewRoomView(r), nil
	})
}

// DeleteRoom removes the room, cancelling its active booking first.
func (w *Workflow) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	_, err := guard.WithExclusiveAccess(ctx, w.guard, id, func(ctx context.Context) (struct{}, error) {
		var cancelled *booking.Booking
		now := w.clock.Now()
		err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			r, err := loadRoom(ctx, tx.Rooms(), id)
			if err != nil {
				return err
			}
			if r.IsBooked() {
				active, err := requireActive(ctx, tx, r)
				if err != nil {
					return err
				}
				if err := cancelBooking(ctx, tx, active, booking.CancelReasonRoomDeleted, now); err != nil {
					return err
				}
				cancelled = active
			}
			return tx.Rooms().Delete(ctx, id)
		})
		if err != nil {
			return struct{}{}, classify(err, nil)
		}

		w.publisher.Publish(event.NewRoomDeleted(id, now))
		logArgs := []any{"room_id", id}
		if cancelled != nil {
			logArgs = append(logArgs, "cancelled_booking_id", cancelled.ID())
		}
		w.logger.Info("room deleted", logArgs...)
		return struct{}{}, nil
	})
	return err
}

// SetMaintenance turns maintenance on or off. Turning it on for a booked room
// cancels the booking; turning it off makes the room Available.
func (w *Workflow) SetMaintenance(ctx context.Context, id uuid.UUID, maintenance bool) (*queries.RoomView, error) {
	return guard.WithExclusiveAccess(ctx, w.guard, id, func(ctx context.Context) (*queries.RoomView, error) {
		var (
			r         *room.Room
			cancelled *booking.Booking
			now       time.Time
		)
		err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			if r, err = loadRoom(ctx, tx.Rooms(), id); err != nil {
				return err
			}
			now = w.clock.Now()
			if !maintenance {
				if err := r.EndMaintenance(now); err != nil {
					return err
				}
				return tx.Rooms().Put(ctx, r)
			}

			var active *booking.Booking
			if r.IsBooked() {
				if active, err = requireActive(ctx, tx, r); err != nil {
					return err
				}
			}
			if _, err := r.EnterMaintenance(now); err != nil {
				return err
			}
			if err := tx.Rooms().Put(ctx, r); err != nil {
				return err
			}
			if active != nil {
				if err := cancelBooking(ctx, tx, active, booking.CancelReasonMaintenance, now); err != nil {
					return err
				}
				cancelled = active
			}
			return nil
		})
		if err != nil {
			return nil, classify(err, nil)
		}

		w.publisher.Publish(event.NewRoomMaintenanceChanged(r.ID(), maintenance, now))
		logArgs := []any{"room_id", r.ID(), "maintenance", maintenance}
		if cancelled != nil {
			logArgs = append(logArgs, "cancelled_booking_id", cancelled.ID())
		}
		w.logger.Info("room maintenance changed", logArgs...)

		return queries.NewRoomView(r), nil
	})
}

// UnbookRoom releases a booked room and cancels its active booking.
func (w *Workflow) UnbookRoom(ctx context.Context, id uuid.UUID) (*queries.RoomView, error) {
	return guard.WithExclusiveAccess(ctx, w.guard, id, func(ctx context.Context) (*queries.RoomView, error) {
		var (
			r      *room.Room
			active *booking.Booking
			now    time.Time
		)
		err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			if r, err = loadRoom(ctx, tx.Rooms(), id); err != nil {
				return err
			}
			if !r.IsBooked() {
				return r.Release(w.clock.Now())
			}
			if active, err = requireActive(ctx, tx, r); err != nil {
				return err
			}
			now = w.clock.Now()
			if err := r.Release(now); err != nil {
				return err
			}
			if err := tx.Rooms().Put(ctx, r); err != nil {
				return err
			}
			return cancelBooking(ctx, tx, active, booking.CancelReasonUnbook, now)
		})
		if err != nil {
			return nil, classify(err, nil)
		}

		w.publisher.Publish(event.NewRoomUnbooked(r.ID(), now))
		w.logger.Info("room unbooked", "room_id", r.ID(), "booking_id", active.ID())

		return queries.NewRoomView(r), nil
	})
}

// ResetAll makes every room Available and cancels every active booking. It holds
// the catalog key for its whole run so no room can appear meanwhile, then locks
// every room in id order. Rooms that showed up between the first listing and
// taking the catalog key trigger a retry with the larger set.
func (w *Workflow) ResetAll(ctx context.Context) (*ResetResult, error) {
	ids, err := w.listRoomIDs(ctx)
	if err != nil {
		return nil, classify(err, nil)
	}
	for {
		result, err := w.resetLocked(ctx, ids)
		if !errors.Is(err, errRoomSetChanged) {
			return result, err
		}
		if ids, err = w.listRoomIDs(ctx); err != nil {
			return nil, classify(err, nil)
		}
	}
}

func (w *Workflow) listRoomIDs(ctx context.Context) ([]uuid.UUID, error) {
	listed, err := w.uow.Reads().Rooms().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(listed, func(r *room.Room, _ int) uuid.UUID { return r.ID() }), nil
}

func (w *Workflow) resetLocked(ctx context.Context, locked []uuid.UUID) (*ResetResult, error) {
	keys := append([]uuid.UUID{catalogKey}, locked...)
	return guard.WithExclusiveAccessAll(ctx, w.guard, keys, func(ctx context.Context) (*ResetResult, error) {
		ids, err := w.listRoomIDs(ctx)
		if err != nil {
			return nil, classify(err, nil)
		}
		if len(lo.Without(ids, locked...)) > 0 {
			return nil, errRoomSetChanged
		}

		var result ResetResult
		now := w.clock.Now()
		err = w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			result = ResetResult{}
			for _, id := range ids {
				r, err := tx.Rooms().Get(ctx, id)
				if infra.IsKind(err, infra.KindNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				active, err := tx.Bookings().FindActiveByRoom(ctx, id)
				if err != nil {
					return err
				}
				if r.ForceAvailable(now) {
					if err := tx.Rooms().Put(ctx, r); err != nil {
						return err
					}
					result.RoomsReset++
				}
				if active != nil {
					if err := cancelBooking(ctx, tx, active, booking.CancelReasonReset, now); err != nil {
						return err
					}
					result.BookingsCancelled++
				}
			}
			return nil
		})
		if err != nil {
			return nil, classify(err, nil)
		}

		w.publisher.Publish(event.NewAllReset(now))
		w.logger.Info("all rooms reset",
			"rooms_reset", result.RoomsReset,
			"bookings_cancelled", result.BookingsCancelled)

		return &result, nil
	})
}
