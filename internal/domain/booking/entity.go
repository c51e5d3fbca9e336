package booking

import (
	"errors"
	"time"

	"hotel-booking/internal/domain/room"

	"github.com/google/uuid"
)

var (
	ErrAlreadyCancelled    = errors.New("booking is already cancelled")
	ErrInvalidCancelReason = errors.New("invalid cancel reason")
)

type CancelReason string

const (
	CancelReasonAdmin       CancelReason = "admin"
	CancelReasonUnbook      CancelReason = "unbook"
	CancelReasonMaintenance CancelReason = "maintenance"
	CancelReasonRoomDeleted CancelReason = "room_deleted"
	CancelReasonReset       CancelReason = "reset"
)

func (r CancelReason) String() string {
	return string(r)
}

func (r CancelReason) IsValid() bool {
	switch r {
	case CancelReasonAdmin, CancelReasonUnbook, CancelReasonMaintenance, CancelReasonRoomDeleted, CancelReasonReset:
		return true
	default:
		return false
	}
}

// Booking is a ledger entry. It is active until cancelled; entries are never removed.
type Booking struct {
	id           uuid.UUID
	roomID       uuid.UUID
	guestName    string
	createdAt    time.Time
	cancelledAt  *time.Time
	cancelReason *CancelReason
}

func NewBooking(roomID uuid.UUID, guest room.GuestName, now time.Time) *Booking {
	return &Booking{
		id:        uuid.New(),
		roomID:    roomID,
		guestName: guest.String(),
		createdAt: now,
	}
}

func ReconstructBooking(
	id, roomID uuid.UUID,
	guestName string,
	createdAt time.Time,
	cancelledAt *time.Time,
	cancelReason *CancelReason,
) *Booking {
	return &Booking{
		id:           id,
		roomID:       roomID,
		guestName:    guestName,
		createdAt:    createdAt,
		cancelledAt:  cancelledAt,
		cancelReason: cancelReason,
	}
}

func (b *Booking) Cancel(reason CancelReason, at time.Time) error {
	if !reason.IsValid() {
		return ErrInvalidCancelReason
	}
	if !b.IsActive() {
		return ErrAlreadyCancelled
	}
	b.cancelledAt = &at
	b.cancelReason = &reason
	return nil
}

func (b *Booking) IsActive() bool {
	return b.cancelledAt == nil
}

func (b *Booking) Clone() *Booking {
	c := *b
	if b.cancelledAt != nil {
		t := *b.cancelledAt
		c.cancelledAt = &t
	}
	if b.cancelReason != nil {
		r := *b.cancelReason
		c.cancelReason = &r
	}
	return &c
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) RoomID() uuid.UUID           { return b.roomID }
func (b *Booking) GuestName() string           { return b.guestName }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) CancelledAt() *time.Time     { return b.cancelledAt }
func (b *Booking) CancelReason() *CancelReason { return b.cancelReason }
