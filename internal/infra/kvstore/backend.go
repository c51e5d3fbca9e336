// Package kvstore implements the unit of work on top of simple key-value backends.
//
// Writes made inside Within are staged in memory and handed to the backend as a
// single ChangeSet on commit. Uniqueness of room numbers and of the active booking
// per room is checked under a commit lock before the backend applies the set.
package kvstore

import (
	"context"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"

	"github.com/google/uuid"
)

// Backend persists committed records. Load methods return
// infra.RepositoryError{Kind: NOT_FOUND} for unknown ids and must return values
// the caller is free to mutate.
type Backend interface {
	LoadRoom(ctx context.Context, id uuid.UUID) (*room.Room, error)
	LoadRooms(ctx context.Context) ([]*room.Room, error)
	LoadBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	LoadBookings(ctx context.Context) ([]*booking.Booking, error)
	// LoadActiveBooking returns nil, nil when the room has none.
	LoadActiveBooking(ctx context.Context, roomID uuid.UUID) (*booking.Booking, error)
	// Apply makes every change in cs visible at once, or none of them.
	Apply(ctx context.Context, cs ChangeSet) error
	Ping(ctx context.Context) error
	Close() error
}

type ChangeSet struct {
	PutRooms    []*room.Room
	DeleteRooms []uuid.UUID
	PutBookings []*booking.Booking
}

func (cs ChangeSet) IsEmpty() bool {
	return len(cs.PutRooms) == 0 && len(cs.DeleteRooms) == 0 && len(cs.PutBookings) == 0
}
