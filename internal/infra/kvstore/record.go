package kvstore

import (
	"encoding/json"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// RoomRecord is the stored form of a room for byte-oriented backends.
type RoomRecord struct {
	ID         uuid.UUID `json:"id"`
	Number     string    `json:"number"`
	Category   string    `json:"category"`
	PriceCents int64     `json:"price_cents"`
	State      string    `json:"state"`
	Occupant   *string   `json:"occupant,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type BookingRecord struct {
	ID           uuid.UUID  `json:"id"`
	RoomID       uuid.UUID  `json:"room_id"`
	GuestName    string     `json:"guest_name"`
	CreatedAt    time.Time  `json:"created_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
}

func EncodeRoom(r *room.Room) ([]byte, error) {
	return json.Marshal(RoomRecord{
		ID:         r.ID(),
		Number:     r.Number().String(),
		Category:   r.Category().String(),
		PriceCents: r.Price().Cents(),
		State:      r.State().String(),
		Occupant:   r.Occupant(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	})
}

func DecodeRoom(data []byte) (*room.Room, error) {
	var rec RoomRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errs.Wrap(err, "decode room record")
	}
	number, err := room.NewNumber(rec.Number)
	if err != nil {
		return nil, errs.Wrapf(err, "room %s", rec.ID)
	}
	category, err := room.NewCategory(rec.Category)
	if err != nil {
		return nil, errs.Wrapf(err, "room %s", rec.ID)
	}
	price, err := room.NewPriceFromCents(rec.PriceCents)
	if err != nil {
		return nil, errs.Wrapf(err, "room %s", rec.ID)
	}
	state := room.State(rec.State)
	if !state.IsValid() {
		return nil, errs.Newf("room %s: invalid state %q", rec.ID, rec.State)
	}
	return room.ReconstructRoom(rec.ID, number, category, price, state, rec.Occupant, rec.CreatedAt, rec.UpdatedAt), nil
}

func EncodeBooking(b *booking.Booking) ([]byte, error) {
	rec := BookingRecord{
		ID:          b.ID(),
		RoomID:      b.RoomID(),
		GuestName:   b.GuestName(),
		CreatedAt:   b.CreatedAt(),
		CancelledAt: b.CancelledAt(),
	}
	if reason := b.CancelReason(); reason != nil {
		s := reason.String()
		rec.CancelReason = &s
	}
	return json.Marshal(rec)
}

func DecodeBooking(data []byte) (*booking.Booking, error) {
	var rec BookingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errs.Wrap(err, "decode booking record")
	}
	var reason *booking.CancelReason
	if rec.CancelReason != nil {
		r := booking.CancelReason(*rec.CancelReason)
		if !r.IsValid() {
			return nil, errs.Newf("booking %s: invalid cancel reason %q", rec.ID, *rec.CancelReason)
		}
		reason = &r
	}
	return booking.ReconstructBooking(rec.ID, rec.RoomID, rec.GuestName, rec.CreatedAt, rec.CancelledAt, reason), nil
}
