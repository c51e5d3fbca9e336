package room

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxGuestNameLength = 100

type GuestName struct {
	value string
}

func NewGuestName(s string) (GuestName, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return GuestName{}, ErrEmptyGuestName
	}
	if utf8.RuneCountInString(t) > MaxGuestNameLength {
		return GuestName{}, ErrGuestNameLength
	}
	return GuestName{value: t}, nil
}

func (g GuestName) String() string { return g.value }

type Room struct {
	id        uuid.UUID
	number    Number
	category  Category
	price     Price
	state     State
	occupant  *string
	createdAt time.Time
	updatedAt time.Time
}

// NewRoom creates a room that is Available, or in Maintenance when requested.
func NewRoom(number Number, category Category, price Price, maintenance bool, now time.Time) (*Room, error) {
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	state := StateAvailable
	if maintenance {
		state = StateMaintenance
	}
	return &Room{
		id:        uuid.New(),
		number:    number,
		category:  category,
		price:     price,
		state:     state,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructRoom(
	id uuid.UUID,
	number Number,
	category Category,
	price Price,
	state State,
	occupant *string,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:        id,
		number:    number,
		category:  category,
		price:     price,
		state:     state,
		occupant:  occupant,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Book moves Available -> Booked and records the occupant.
func (r *Room) Book(guest GuestName, now time.Time) error {
	if r.state != StateAvailable {
		return conflict("book", r.state)
	}
	name := guest.String()
	r.state = StateBooked
	r.occupant = &name
	r.updatedAt = now
	return nil
}

// Release moves Booked -> Available and clears the occupant.
func (r *Room) Release(now time.Time) error {
	if r.state != StateBooked {
		return conflict("release", r.state)
	}
	r.state = StateAvailable
	r.occupant = nil
	r.updatedAt = now
	return nil
}

// EnterMaintenance is valid from Available and Booked. The caller must cancel
// the active booking when wasBooked is true.
func (r *Room) EnterMaintenance(now time.Time) (wasBooked bool, err error) {
	switch r.state {
	case StateAvailable, StateBooked:
	default:
		return false, conflict("enter maintenance for", r.state)
	}
	wasBooked = r.state == StateBooked
	r.state = StateMaintenance
	r.occupant = nil
	r.updatedAt = now
	return wasBooked, nil
}

func (r *Room) EndMaintenance(now time.Time) error {
	if r.state != StateMaintenance {
		return conflict("end maintenance for", r.state)
	}
	r.state = StateAvailable
	r.updatedAt = now
	return nil
}

// ForceAvailable puts the room back to Available from any state.
// It reports whether anything changed.
func (r *Room) ForceAvailable(now time.Time) bool {
	if r.state == StateAvailable && r.occupant == nil {
		return false
	}
	r.state = StateAvailable
	r.occupant = nil
	r.updatedAt = now
	return true
}

// UpdateDetails replaces the descriptive fields. State is never touched here.
func (r *Room) UpdateDetails(number Number, category Category, price Price, now time.Time) error {
	if !category.IsValid() {
		return ErrInvalidCategory
	}
	r.number = number
	r.category = category
	r.price = price
	r.updatedAt = now
	return nil
}

func (r *Room) IsAvailable() bool { return r.state == StateAvailable }
func (r *Room) IsBooked() bool    { return r.state == StateBooked }

// Clone returns an independent copy so staged changes never alias committed records.
func (r *Room) Clone() *Room {
	c := *r
	if r.occupant != nil {
		o := *r.occupant
		c.occupant = &o
	}
	return &c
}

func (r *Room) ID() uuid.UUID        { return r.id }
func (r *Room) Number() Number       { return r.number }
func (r *Room) Category() Category   { return r.category }
func (r *Room) Price() Price         { return r.price }
func (r *Room) State() State         { return r.state }
func (r *Room) Occupant() *string    { return r.occupant }
func (r *Room) CreatedAt() time.Time { return r.createdAt }
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }
