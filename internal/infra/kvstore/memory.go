package kvstore

import (
	"context"
	"sync"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"

	"github.com/google/uuid"
)

// MemoryBackend keeps records in process memory. Apply swaps in the whole
// change set under the write lock, so readers never observe half a commit.
type MemoryBackend struct {
	mu       sync.RWMutex
	rooms    map[uuid.UUID]*room.Room
	bookings map[uuid.UUID]*booking.Booking
	active   map[uuid.UUID]uuid.UUID // room id -> active booking id
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		rooms:    make(map[uuid.UUID]*room.Room),
		bookings: make(map[uuid.UUID]*booking.Booking),
		active:   make(map[uuid.UUID]uuid.UUID),
	}
}

var _ Backend = (*MemoryBackend)(nil)

func (m *MemoryBackend) LoadRoom(_ context.Context, id uuid.UUID) (*room.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, infra.NotFound("room not found")
	}
	return r.Clone(), nil
}

func (m *MemoryBackend) LoadRooms(_ context.Context) ([]*room.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*room.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *MemoryBackend) LoadBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, infra.NotFound("booking not found")
	}
	return b.Clone(), nil
}

func (m *MemoryBackend) LoadBookings(_ context.Context) ([]*booking.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*booking.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b.Clone())
	}
	return out, nil
}

func (m *MemoryBackend) LoadActiveBooking(_ context.Context, roomID uuid.UUID) (*booking.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.active[roomID]
	if !ok {
		return nil, nil
	}
	return m.bookings[id].Clone(), nil
}

func (m *MemoryBackend) Apply(ctx context.Context, cs ChangeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range cs.PutRooms {
		m.rooms[r.ID()] = r.Clone()
	}
	for _, id := range cs.DeleteRooms {
		delete(m.rooms, id)
	}
	for _, b := range cs.PutBookings {
		m.bookings[b.ID()] = b.Clone()
		if b.IsActive() {
			m.active[b.RoomID()] = b.ID()
		} else if m.active[b.RoomID()] == b.ID() {
			delete(m.active, b.RoomID())
		}
	}
	return nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryBackend) Close() error {
	return nil
}
