package response

import (
	"time"

	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RoomSummaryResponse struct {
	Number   string  `json:"number"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type BookingResponse struct {
	ID           uuid.UUID  `json:"id"`
	RoomID       uuid.UUID  `json:"roomId"`
	GuestName    string     `json:"guestName"`
	CreatedAt    time.Time  `json:"createdAt"`
	CancelledAt  *time.Time `json:"cancelledAt"`
	CancelReason *string    `json:"cancelReason"`
	Active       bool       `json:"active"`
	// Room is nil once the room has been deleted.
	Room *RoomSummaryResponse `json:"room" copier:"-"`
}

type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

type ReserveResponse struct {
	Booking *BookingResponse `json:"booking"`
	Room    *RoomResponse    `json:"room"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var res BookingResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	if v.Room != nil {
		res.Room = &RoomSummaryResponse{
			Number:   v.Room.Number,
			Category: v.Room.Category,
			Price:    v.Room.Price,
		}
	}
	return &res, nil
}

func FromBookingViews(views []*queries.BookingView) (*BookingListResponse, error) {
	bookings := make([]*BookingResponse, 0, len(views))
	for _, v := range views {
		b, err := FromBookingView(v)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return &BookingListResponse{Bookings: bookings}, nil
}

func FromReserveResult(r *commands.ReserveResult) (*ReserveResponse, error) {
	b, err := FromBookingView(r.Booking)
	if err != nil {
		return nil, err
	}
	room, err := FromRoomView(r.Room)
	if err != nil {
		return nil, err
	}
	return &ReserveResponse{Booking: b, Room: room}, nil
}
