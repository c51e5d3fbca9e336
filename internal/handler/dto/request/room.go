package request

import (
	"hotel-booking/internal/usecase/commands"
)

type CreateRoomRequest struct {
	Number      string   `json:"number" binding:"required,max=20"`
	Category    string   `json:"category" binding:"required,roomcategory"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Maintenance bool     `json:"maintenance"`
}

func (r *CreateRoomRequest) ToInput() commands.CreateRoomInput {
	in := commands.CreateRoomInput{
		Number:      r.Number,
		Category:    r.Category,
		Maintenance: r.Maintenance,
	}
	if r.Price != nil {
		in.Price = *r.Price
	}
	return in
}

// UpdateRoomRequest patches room details. State is only here so that a client
// trying to set it gets a 400 instead of a silent no-op.
type UpdateRoomRequest struct {
	Number   *string  `json:"number" binding:"omitempty,max=20"`
	Category *string  `json:"category" binding:"omitempty,roomcategory"`
	Price    *float64 `json:"price" binding:"omitempty,gte=0"`
	State    *string  `json:"state,omitempty" binding:"isdefault"`
}

func (r *UpdateRoomRequest) ToInput() commands.UpdateRoomInput {
	return commands.UpdateRoomInput{
		Number:   r.Number,
		Category: r.Category,
		Price:    r.Price,
	}
}

type MaintenanceRequest struct {
	Maintenance *bool `json:"maintenance" binding:"required"`
}
