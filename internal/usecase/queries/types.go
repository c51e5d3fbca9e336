package queries

import (
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"

	"github.com/google/uuid"
)

// RoomView is the read-side room shape shared by the HTTP API and stream snapshots.
type RoomView struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	State       string    `json:"state"`
	Available   bool      `json:"available"`
	Maintenance bool      `json:"maintenance"`
	Occupant    *string   `json:"occupant"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RoomSummary is attached to a booking; nil once the room is deleted.
type RoomSummary struct {
	Number   string  `json:"number"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type BookingView struct {
	ID           uuid.UUID    `json:"id"`
	RoomID       uuid.UUID    `json:"roomId"`
	GuestName    string       `json:"guestName"`
	CreatedAt    time.Time    `json:"createdAt"`
	CancelledAt  *time.Time   `json:"cancelledAt"`
	CancelReason *string      `json:"cancelReason"`
	Active       bool         `json:"active"`
	Room         *RoomSummary `json:"room"`
}

func NewRoomView(r *room.Room) *RoomView {
	var occupant *string
	if o := r.Occupant(); o != nil {
		v := *o
		occupant = &v
	}
	return &RoomView{
		ID:          r.ID(),
		Number:      r.Number().String(),
		Category:    r.Category().String(),
		Price:       r.Price().Amount(),
		State:       r.State().String(),
		Available:   r.IsAvailable(),
		Maintenance: r.State() == room.StateMaintenance,
		Occupant:    occupant,
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

// Redacted drops guest identity for public viewers.
func (v RoomView) Redacted() *RoomView {
	v.Occupant = nil
	return &v
}

func NewBookingView(b *booking.Booking, r *room.Room) *BookingView {
	view := &BookingView{
		ID:          b.ID(),
		RoomID:      b.RoomID(),
		GuestName:   b.GuestName(),
		CreatedAt:   b.CreatedAt(),
		CancelledAt: b.CancelledAt(),
		Active:      b.IsActive(),
	}
	if reason := b.CancelReason(); reason != nil {
		s := reason.String()
		view.CancelReason = &s
	}
	if r != nil {
		view.Room = &RoomSummary{
			Number:   r.Number().String(),
			Category: r.Category().String(),
			Price:    r.Price().Amount(),
		}
	}
	return view
}
