package shared

import (
	"context"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/event"
	"hotel-booking/internal/domain/room"

	"github.com/google/uuid"
)

//go:generate mockgen -source=uow.go -destination=../../mock/shared/uow.go -package=sharedmock

type UnitOfWork interface {
	// Within: Store and Ledger writes made through tx commit together or not at all
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: committed state only, no staging visible
	Reads() ReadView
}

type Tx interface {
	Rooms() RoomStore
	Bookings() BookingLedger
}

type ReadView interface {
	Rooms() RoomReader
	Bookings() BookingReader
}

// Not-found lookups return an infra.RepositoryError of kind NOT_FOUND.
type RoomReader interface {
	Get(ctx context.Context, id uuid.UUID) (*room.Room, error)
	ListAll(ctx context.Context) ([]*room.Room, error)
}

type RoomStore interface {
	RoomReader
	// Put inserts or replaces. A number already used by another room is DUPLICATE_KEY.
	Put(ctx context.Context, r *room.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type BookingReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// FindActiveByRoom returns nil, nil when the room has no active booking.
	FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*booking.Booking, error)
	ListAll(ctx context.Context) ([]*booking.Booking, error)
}

type BookingLedger interface {
	BookingReader
	Append(ctx context.Context, b *booking.Booking) error
	MarkCancelled(ctx context.Context, b *booking.Booking) error
}

// Publisher must not block the caller.
type Publisher interface {
	Publish(e event.Event)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
