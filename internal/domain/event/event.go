// Package event defines the notifications published after each committed room mutation.
package event

import (
	"time"

	"hotel-booking/internal/domain/room"

	"github.com/google/uuid"
)

type Kind string

const (
	KindRoomCreated            Kind = "room_created"
	KindRoomUpdated            Kind = "room_updated"
	KindRoomBooked             Kind = "room_booked"
	KindRoomUnbooked           Kind = "room_unbooked"
	KindRoomMaintenanceChanged Kind = "room_maintenance_changed"
	KindRoomDeleted            Kind = "room_deleted"
	KindAllReset               Kind = "all_reset"
)

func (k Kind) String() string {
	return string(k)
}

type Audience string

const (
	AudiencePublic Audience = "public"
	AudienceAdmin  Audience = "admin"
)

func (a Audience) IsValid() bool {
	return a == AudiencePublic || a == AudienceAdmin
}

// Payload is the kind-specific body of an Event.
type Payload interface {
	Kind() Kind
	// redacted returns the payload with guest identity removed.
	redacted() Payload
}

// Event is what subscribers receive. Seq is assigned by the broadcaster at
// publication and is strictly increasing across all events.
type Event struct {
	Seq     uint64     `json:"seq"`
	Kind    Kind       `json:"type"`
	At      time.Time  `json:"at"`
	RoomID  *uuid.UUID `json:"roomId,omitempty"`
	Payload Payload    `json:"payload"`
}

func newEvent(p Payload, roomID *uuid.UUID, at time.Time) Event {
	return Event{Kind: p.Kind(), At: at, RoomID: roomID, Payload: p}
}

// ForAudience returns the event as it may be shown to audience.
func (e Event) ForAudience(a Audience) Event {
	if a == AudienceAdmin {
		return e
	}
	out := e
	out.Payload = e.Payload.redacted()
	return out
}

// RoomSnapshot is the full room representation carried by created/updated events
// and by stream snapshots.
type RoomSnapshot struct {
	ID          uuid.UUID     `json:"id"`
	Number      string        `json:"number"`
	Category    room.Category `json:"category"`
	Price       float64       `json:"price"`
	State       room.State    `json:"state"`
	Available   bool          `json:"available"`
	Maintenance bool          `json:"maintenance"`
	Occupant    *string       `json:"occupant"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func SnapshotOf(r *room.Room) RoomSnapshot {
	var occupant *string
	if o := r.Occupant(); o != nil {
		v := *o
		occupant = &v
	}
	return RoomSnapshot{
		ID:          r.ID(),
		Number:      r.Number().String(),
		Category:    r.Category(),
		Price:       r.Price().Amount(),
		State:       r.State(),
		Available:   r.State() == room.StateAvailable,
		Maintenance: r.State() == room.StateMaintenance,
		Occupant:    occupant,
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

// Redacted hides the occupant.
func (s RoomSnapshot) Redacted() RoomSnapshot {
	s.Occupant = nil
	return s
}

type RoomCreated struct {
	Room RoomSnapshot `json:"room"`
}

type RoomUpdated struct {
	Room RoomSnapshot `json:"room"`
}

type RoomBooked struct {
	RoomID    uuid.UUID `json:"roomId"`
	GuestName string    `json:"guestName,omitempty"`
}

type RoomUnbooked struct {
	RoomID uuid.UUID `json:"roomId"`
}

type RoomMaintenanceChanged struct {
	RoomID      uuid.UUID `json:"roomId"`
	Maintenance bool      `json:"maintenance"`
}

type RoomDeleted struct {
	RoomID uuid.UUID `json:"roomId"`
}

type AllReset struct{}

func (RoomCreated) Kind() Kind            { return KindRoomCreated }
func (RoomUpdated) Kind() Kind            { return KindRoomUpdated }
func (RoomBooked) Kind() Kind             { return KindRoomBooked }
func (RoomUnbooked) Kind() Kind           { return KindRoomUnbooked }
func (RoomMaintenanceChanged) Kind() Kind { return KindRoomMaintenanceChanged }
func (RoomDeleted) Kind() Kind            { return KindRoomDeleted }
func (AllReset) Kind() Kind               { return KindAllReset }

func (p RoomCreated) redacted() Payload { return RoomCreated{Room: p.Room.Redacted()} }
func (p RoomUpdated) redacted() Payload { return RoomUpdated{Room: p.Room.Redacted()} }
func (p RoomBooked) redacted() Payload  { return RoomBooked{RoomID: p.RoomID} }

func (p RoomUnbooked) redacted() Payload           { return p }
func (p RoomMaintenanceChanged) redacted() Payload { return p }
func (p RoomDeleted) redacted() Payload            { return p }
func (p AllReset) redacted() Payload               { return p }

func NewRoomCreated(r *room.Room, at time.Time) Event {
	id := r.ID()
	return newEvent(RoomCreated{Room: SnapshotOf(r)}, &id, at)
}

func NewRoomUpdated(r *room.Room, at time.Time) Event {
	id := r.ID()
	return newEvent(RoomUpdated{Room: SnapshotOf(r)}, &id, at)
}

func NewRoomBooked(roomID uuid.UUID, guestName string, at time.Time) Event {
	return newEvent(RoomBooked{RoomID: roomID, GuestName: guestName}, &roomID, at)
}

func NewRoomUnbooked(roomID uuid.UUID, at time.Time) Event {
	return newEvent(RoomUnbooked{RoomID: roomID}, &roomID, at)
}

func NewRoomMaintenanceChanged(roomID uuid.UUID, maintenance bool, at time.Time) Event {
	return newEvent(RoomMaintenanceChanged{RoomID: roomID, Maintenance: maintenance}, &roomID, at)
}

func NewRoomDeleted(roomID uuid.UUID, at time.Time) Event {
	return newEvent(RoomDeleted{RoomID: roomID}, &roomID, at)
}

func NewAllReset(at time.Time) Event {
	return newEvent(AllReset{}, nil, at)
}
