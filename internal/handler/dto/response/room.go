package response

import (
	"time"

	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RoomResponse struct {
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

type RoomListResponse struct {
	Rooms []*RoomResponse `json:"rooms"`
}

type ResetResponse struct {
	RoomsReset        int `json:"roomsReset"`
	BookingsCancelled int `json:"bookingsCancelled"`
}

func FromRoomView(v *queries.RoomView) (*RoomResponse, error) {
	var res RoomResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromRoomViews(views []*queries.RoomView) (*RoomListResponse, error) {
	rooms := make([]*RoomResponse, 0, len(views))
	for _, v := range views {
		r, err := FromRoomView(v)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return &RoomListResponse{Rooms: rooms}, nil
}

func FromResetResult(r *commands.ResetResult) *ResetResponse {
	var res ResetResponse
	_ = copier.Copy(&res, r)
	return &res
}
