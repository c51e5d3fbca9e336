package request

import (
	"hotel-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReserveRequest struct {
	RoomID    uuid.UUID `json:"roomId" binding:"required"`
	GuestName string    `json:"guestName" binding:"required,max=100"`
}

func (r *ReserveRequest) ToInput() commands.ReserveInput {
	return commands.ReserveInput{
		RoomID:    r.RoomID,
		GuestName: r.GuestName,
	}
}
