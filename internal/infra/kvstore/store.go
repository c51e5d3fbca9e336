package kvstore

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Store struct {
	backend  Backend
	logger   *slog.Logger
	commitMu sync.Mutex
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := newStagedTx(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}

	cs := tx.changeSet()
	if cs.IsEmpty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if err := s.checkConstraints(ctx, cs); err != nil {
		return err
	}
	if err := s.backend.Apply(ctx, cs); err != nil {
		return s.wrapLoadErr(err, "failed to commit changes")
	}
	return nil
}

func (s *Store) Reads() shared.ReadView {
	return readView{s: s}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// checkConstraints enforces what a relational store would enforce with unique indexes.
func (s *Store) checkConstraints(ctx context.Context, cs ChangeSet) error {
	if len(cs.PutRooms) > 0 {
		committed, err := s.backend.LoadRooms(ctx)
		if err != nil {
			return s.wrapLoadErr(err, "failed to load rooms")
		}
		final := make(map[uuid.UUID]*room.Room, len(committed)+len(cs.PutRooms))
		for _, r := range committed {
			final[r.ID()] = r
		}
		for _, r := range cs.PutRooms {
			final[r.ID()] = r
		}
		for _, id := range cs.DeleteRooms {
			delete(final, id)
		}
		seen := make(map[string]uuid.UUID, len(final))
		for id, r := range final {
			if other, dup := seen[r.Number().String()]; dup && other != id {
				return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "room number already exists", nil)
			}
			seen[r.Number().String()] = id
		}
	}

	activeInSet := make(map[uuid.UUID]uuid.UUID)
	cancelledInSet := make(map[uuid.UUID]bool)
	for _, b := range cs.PutBookings {
		if !b.IsActive() {
			cancelledInSet[b.ID()] = true
		}
	}
	for _, b := range cs.PutBookings {
		if !b.IsActive() {
			continue
		}
		if other, dup := activeInSet[b.RoomID()]; dup && other != b.ID() {
			return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "room already has an active booking", nil)
		}
		activeInSet[b.RoomID()] = b.ID()

		existing, err := s.backend.LoadActiveBooking(ctx, b.RoomID())
		if err != nil {
			return s.wrapLoadErr(err, "failed to load active booking")
		}
		if existing != nil && existing.ID() != b.ID() && !cancelledInSet[existing.ID()] {
			return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "room already has an active booking", nil)
		}
	}
	return nil
}

func (s *Store) wrapLoadErr(err error, msg string) error {
	var repoErr infra.RepositoryError
	if errors.As(err, &repoErr) {
		return err
	}
	return infra.WrapRepoErr(s.logger, infra.KindDBFailure, msg, err)
}

func sortRooms(rooms []*room.Room) []*room.Room {
	slices.SortFunc(rooms, func(a, b *room.Room) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.Number().String(), b.Number().String())
	})
	return rooms
}

func sortBookings(bookings []*booking.Booking) []*booking.Booking {
	slices.SortFunc(bookings, func(a, b *booking.Booking) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return bookings
}

// readView serves committed state straight from the backend.
type readView struct {
	s *Store
}

func (v readView) Rooms() shared.RoomReader       { return committedRooms(v) }
func (v readView) Bookings() shared.BookingReader { return committedBookings(v) }

type committedRooms readView

func (r committedRooms) Get(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	return r.s.backend.LoadRoom(ctx, id)
}

func (r committedRooms) ListAll(ctx context.Context) ([]*room.Room, error) {
	rooms, err := r.s.backend.LoadRooms(ctx)
	if err != nil {
		return nil, err
	}
	return sortRooms(rooms), nil
}

type committedBookings readView

func (b committedBookings) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return b.s.backend.LoadBooking(ctx, id)
}

func (b committedBookings) FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*booking.Booking, error) {
	return b.s.backend.LoadActiveBooking(ctx, roomID)
}

func (b committedBookings) ListAll(ctx context.Context) ([]*booking.Booking, error) {
	all, err := b.s.backend.LoadBookings(ctx)
	if err != nil {
		return nil, err
	}
	return sortBookings(all), nil
}

// stagedTx overlays uncommitted writes on the backend. Nothing reaches the
// backend until the enclosing Within returns without error.
type stagedTx struct {
	s            *Store
	rooms        map[uuid.UUID]*room.Room
	deletedRooms map[uuid.UUID]struct{}
	bookings     map[uuid.UUID]*booking.Booking
	roomOrder    []uuid.UUID
	bookingOrder []uuid.UUID
}

func newStagedTx(s *Store) *stagedTx {
	return &stagedTx{
		s:            s,
		rooms:        make(map[uuid.UUID]*room.Room),
		deletedRooms: make(map[uuid.UUID]struct{}),
		bookings:     make(map[uuid.UUID]*booking.Booking),
	}
}

func (t *stagedTx) Rooms() shared.RoomStore        { return (*stagedRooms)(t) }
func (t *stagedTx) Bookings() shared.BookingLedger { return (*stagedBookings)(t) }

func (t *stagedTx) changeSet() ChangeSet {
	cs := ChangeSet{}
	for _, id := range t.roomOrder {
		if r, ok := t.rooms[id]; ok {
			cs.PutRooms = append(cs.PutRooms, r)
		}
	}
	cs.DeleteRooms = lo.Keys(t.deletedRooms)
	for _, id := range t.bookingOrder {
		cs.PutBookings = append(cs.PutBookings, t.bookings[id])
	}
	return cs
}

type stagedRooms stagedTx

func (r *stagedRooms) Get(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	if _, gone := r.deletedRooms[id]; gone {
		return nil, infra.NotFound("room not found")
	}
	if staged, ok := r.rooms[id]; ok {
		return staged.Clone(), nil
	}
	return r.s.backend.LoadRoom(ctx, id)
}

func (r *stagedRooms) ListAll(ctx context.Context) ([]*room.Room, error) {
	committed, err := r.s.backend.LoadRooms(ctx)
	if err != nil {
		return nil, err
	}
	out := lo.Filter(committed, func(c *room.Room, _ int) bool {
		_, gone := r.deletedRooms[c.ID()]
		_, staged := r.rooms[c.ID()]
		return !gone && !staged
	})
	for _, staged := range r.rooms {
		out = append(out, staged.Clone())
	}
	return sortRooms(out), nil
}

func (r *stagedRooms) Put(ctx context.Context, rm *room.Room) error {
	prev, err := r.Get(ctx, rm.ID())
	switch {
	case err == nil && prev.Number() == rm.Number():
		// number unchanged, nothing to re-check
	case err == nil || infra.IsKind(err, infra.KindNotFound):
		if err := r.checkNumberFree(ctx, rm); err != nil {
			return err
		}
	default:
		return err
	}

	if !slices.Contains(r.roomOrder, rm.ID()) {
		r.roomOrder = append(r.roomOrder, rm.ID())
	}
	r.rooms[rm.ID()] = rm.Clone()
	delete(r.deletedRooms, rm.ID())
	return nil
}

func (r *stagedRooms) checkNumberFree(ctx context.Context, rm *room.Room) error {
	all, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	clash := lo.ContainsBy(all, func(o *room.Room) bool {
		return o.ID() != rm.ID() && o.Number() == rm.Number()
	})
	if clash {
		return infra.WrapRepoErr(r.s.logger, infra.KindDuplicateKey, "room number already exists", nil)
	}
	return nil
}

func (r *stagedRooms) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	delete(r.rooms, id)
	r.deletedRooms[id] = struct{}{}
	return nil
}

type stagedBookings stagedTx

func (b *stagedBookings) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	if staged, ok := b.bookings[id]; ok {
		return staged.Clone(), nil
	}
	return b.s.backend.LoadBooking(ctx, id)
}

func (b *stagedBookings) FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*booking.Booking, error) {
	for _, id := range b.bookingOrder {
		staged := b.bookings[id]
		if staged.RoomID() == roomID && staged.IsActive() {
			return staged.Clone(), nil
		}
	}
	committed, err := b.s.backend.LoadActiveBooking(ctx, roomID)
	if err != nil || committed == nil {
		return nil, err
	}
	if staged, ok := b.bookings[committed.ID()]; ok && !staged.IsActive() {
		return nil, nil
	}
	return committed, nil
}

func (b *stagedBookings) ListAll(ctx context.Context) ([]*booking.Booking, error) {
	committed, err := b.s.backend.LoadBookings(ctx)
	if err != nil {
		return nil, err
	}
	out := lo.Filter(committed, func(c *booking.Booking, _ int) bool {
		_, staged := b.bookings[c.ID()]
		return !staged
	})
	for _, staged := range b.bookings {
		out = append(out, staged.Clone())
	}
	return sortBookings(out), nil
}

func (b *stagedBookings) Append(ctx context.Context, bk *booking.Booking) error {
	if _, ok := b.bookings[bk.ID()]; ok {
		return infra.WrapRepoErr(b.s.logger, infra.KindDuplicateKey, "booking already exists", nil)
	}
	_, err := b.s.backend.LoadBooking(ctx, bk.ID())
	switch {
	case err == nil:
		return infra.WrapRepoErr(b.s.logger, infra.KindDuplicateKey, "booking already exists", nil)
	case !infra.IsKind(err, infra.KindNotFound):
		return err
	}
	b.bookingOrder = append(b.bookingOrder, bk.ID())
	b.bookings[bk.ID()] = bk.Clone()
	return nil
}

func (b *stagedBookings) MarkCancelled(ctx context.Context, bk *booking.Booking) error {
	if bk.IsActive() {
		return infra.WrapRepoErr(b.s.logger, infra.KindConflict, "booking is not cancelled", nil)
	}
	if _, err := b.FindByID(ctx, bk.ID()); err != nil {
		return err
	}
	if _, seen := b.bookings[bk.ID()]; !seen {
		b.bookingOrder = append(b.bookingOrder, bk.ID())
	}
	b.bookings[bk.ID()] = bk.Clone()
	return nil
}
