package commands

import (
	"context"

	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../../mock/commands/ports.go -package=commandsmock

// Inputs are plain values; parsing into domain types happens before any room is locked.
type CreateRoomInput struct {
	Number      string
	Category    string
	Price       float64
	Maintenance bool
}

// UpdateRoomInput: nil fields keep their current value. State is not updatable here.
type UpdateRoomInput struct {
	Number   *string
	Category *string
	Price    *float64
}

type ReserveInput struct {
	RoomID    uuid.UUID
	GuestName string
}

type ReserveResult struct {
	Booking *queries.BookingView
	Room    *queries.RoomView
}

type ResetResult struct {
	RoomsReset        int
	BookingsCancelled int
}

type RoomCommands interface {
	CreateRoom(ctx context.Context, in CreateRoomInput) (*queries.RoomView, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, in UpdateRoomInput) (*queries.RoomView, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	SetMaintenance(ctx context.Context, id uuid.UUID, maintenance bool) (*queries.RoomView, error)
	UnbookRoom(ctx context.Context, id uuid.UUID) (*queries.RoomView, error)
	ResetAll(ctx context.Context) (*ResetResult, error)
}

type BookingCommands interface {
	Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error)
}
