// Package kvstoretest holds the behaviour every store backend must share,
// whether it sits behind kvstore.Store or owns its own transactions.
package kvstoretest

import (
	"context"
	"sync"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/kvstore"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// Store is the surface the suite drives.
type Store interface {
	shared.UnitOfWork
	shared.Pinger
}

// BackendSuite runs the unit-of-work contract against a fresh store per test.
type BackendSuite struct {
	suite.Suite
	NewBackend func() kvstore.Backend
	// NewStore is used instead of NewBackend when set. The returned func releases the store.
	NewStore func() (Store, func() error)

	store   Store
	release func() error
	ctx     context.Context
	now     time.Time
}

func (s *BackendSuite) SetupTest() {
	if s.NewStore != nil {
		s.store, s.release = s.NewStore()
	} else {
		kv := kvstore.NewStore(s.NewBackend(), nil)
		s.store, s.release = kv, kv.Close
	}
	s.ctx = context.Background()
	s.now = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
}

func (s *BackendSuite) TearDownTest() {
	s.Require().NoError(s.release())
}

func (s *BackendSuite) newRoom(number string) *room.Room {
	n, err := room.NewNumber(number)
	s.Require().NoError(err)
	p, err := room.NewPrice(100)
	s.Require().NoError(err)
	r, err := room.NewRoom(n, room.CategoryDouble, p, false, s.now)
	s.Require().NoError(err)
	s.now = s.now.Add(time.Second)
	return r
}

func (s *BackendSuite) putRoom(r *room.Room) {
	err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Rooms().Put(ctx, r)
	})
	s.Require().NoError(err)
}

func (s *BackendSuite) book(r *room.Room, guest string) *booking.Booking {
	g, err := room.NewGuestName(guest)
	s.Require().NoError(err)
	var b *booking.Booking
	err = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Rooms().Get(ctx, r.ID())
		if err != nil {
			return err
		}
		if err := current.Book(g, s.now); err != nil {
			return err
		}
		b = booking.NewBooking(r.ID(), g, s.now)
		if err := tx.Rooms().Put(ctx, current); err != nil {
			return err
		}
		return tx.Bookings().Append(ctx, b)
	})
	s.Require().NoError(err)
	return b
}

func (s *BackendSuite) TestRoundTrip() {
	r := s.newRoom("101")
	s.putRoom(r)

	got, err := s.store.Reads().Rooms().Get(s.ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(r.ID(), got.ID())
	s.Equal("101", got.Number().String())
	s.Equal(room.CategoryDouble, got.Category())
	s.Equal(int64(10000), got.Price().Cents())
	s.Equal(room.StateAvailable, got.State())
	s.True(r.CreatedAt().Equal(got.CreatedAt()))

	b := s.book(r, "Alice")
	gotB, err := s.store.Reads().Bookings().FindByID(s.ctx, b.ID())
	s.Require().NoError(err)
	s.Equal("Alice", gotB.GuestName())
	s.True(gotB.IsActive())

	booked, err := s.store.Reads().Rooms().Get(s.ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(room.StateBooked, booked.State())
	s.Require().NotNil(booked.Occupant())
	s.Equal("Alice", *booked.Occupant())
}

func (s *BackendSuite) TestNotFound() {
	_, err := s.store.Reads().Rooms().Get(s.ctx, uuid.New())
	s.True(infra.IsKind(err, infra.KindNotFound))

	_, err = s.store.Reads().Bookings().FindByID(s.ctx, uuid.New())
	s.True(infra.IsKind(err, infra.KindNotFound))

	active, err := s.store.Reads().Bookings().FindActiveByRoom(s.ctx, uuid.New())
	s.NoError(err)
	s.Nil(active)
}

func (s *BackendSuite) TestFailedUnitOfWorkLeavesNoTrace() {
	r := s.newRoom("101")
	s.putRoom(r)
	boom := infra.NotFound("synthetic")

	g, _ := room.NewGuestName("Alice")
	err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Rooms().Get(ctx, r.ID())
		s.Require().NoError(err)
		s.Require().NoError(current.Book(g, s.now))
		s.Require().NoError(tx.Rooms().Put(ctx, current))
		s.Require().NoError(tx.Bookings().Append(ctx, booking.NewBooking(r.ID(), g, s.now)))

		// staged writes are visible inside the unit of work only
		staged, err := tx.Rooms().Get(ctx, r.ID())
		s.Require().NoError(err)
		s.Equal(room.StateBooked, staged.State())
		committed, err := s.store.Reads().Rooms().Get(ctx, r.ID())
		s.Require().NoError(err)
		s.Equal(room.StateAvailable, committed.State())
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.Reads().Rooms().Get(s.ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(room.StateAvailable, got.State())
	all, err := s.store.Reads().Bookings().ListAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *BackendSuite) TestDuplicateRoomNumber() {
	s.putRoom(s.newRoom("101"))

	err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Rooms().Put(ctx, s.newRoom("101"))
	})
	s.True(infra.IsKind(err, infra.KindDuplicateKey), "got %v", err)

	rooms, err := s.store.Reads().Rooms().ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 1)
}

func (s *BackendSuite) TestConcurrentDuplicateRoomNumber() {
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := room.ReconstructRoom(uuid.New(), mustNumber("777"), room.CategorySingle, room.Price{}, room.StateAvailable, nil, s.now, s.now)
			errs[i] = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
				return tx.Rooms().Put(ctx, r)
			})
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.True(infra.IsKind(err, infra.KindDuplicateKey), "got %v", err)
	}
	s.Equal(1, ok)
}

func (s *BackendSuite) TestSecondActiveBookingRejected() {
	r := s.newRoom("101")
	s.putRoom(r)
	s.book(r, "Alice")

	g, _ := room.NewGuestName("Bob")
	err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Append(ctx, booking.NewBooking(r.ID(), g, s.now))
	})
	s.True(infra.IsKind(err, infra.KindDuplicateKey), "got %v", err)
}

func (s *BackendSuite) TestCancelAndDelete() {
	r := s.newRoom("101")
	s.putRoom(r)
	b := s.book(r, "Alice")

	err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		active, err := tx.Bookings().FindActiveByRoom(ctx, r.ID())
		s.Require().NoError(err)
		s.Require().NotNil(active)
		s.Require().NoError(active.Cancel(booking.CancelReasonRoomDeleted, s.now))
		if err := tx.Bookings().MarkCancelled(ctx, active); err != nil {
			return err
		}
		after, err := tx.Bookings().FindActiveByRoom(ctx, r.ID())
		s.Require().NoError(err)
		s.Nil(after)
		return tx.Rooms().Delete(ctx, r.ID())
	})
	s.Require().NoError(err)

	_, err = s.store.Reads().Rooms().Get(s.ctx, r.ID())
	s.True(infra.IsKind(err, infra.KindNotFound))

	got, err := s.store.Reads().Bookings().FindByID(s.ctx, b.ID())
	s.Require().NoError(err)
	s.False(got.IsActive())
	s.Require().NotNil(got.CancelReason())
	s.Equal(booking.CancelReasonRoomDeleted, *got.CancelReason())

	active, err := s.store.Reads().Bookings().FindActiveByRoom(s.ctx, r.ID())
	s.NoError(err)
	s.Nil(active)

	// the number is free again
	s.putRoom(s.newRoom("101"))
}

func (s *BackendSuite) TestListOrder() {
	first := s.newRoom("201")
	second := s.newRoom("102")
	s.putRoom(second)
	s.putRoom(first)

	rooms, err := s.store.Reads().Rooms().ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(first.ID(), rooms[0].ID())
	s.Equal(second.ID(), rooms[1].ID())
}

func (s *BackendSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}

func mustNumber(v string) room.Number {
	n, err := room.NewNumber(v)
	if err != nil {
		panic(err)
	}
	return n
}
