// Package badgerstore persists rooms and bookings in an embedded Badger database.
//
// Keys:
//
//	room:<id>            room record (JSON)
//	booking:<id>         booking record (JSON)
//	active:<room id>     id of the room's active booking
package badgerstore

import (
	"context"
	"errors"
	"log/slog"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/kvstore"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var (
	roomPrefix    = []byte("room:")
	bookingPrefix = []byte("booking:")
	activePrefix  = []byte("active:")
)

func roomKey(id uuid.UUID) []byte    { return append([]byte("room:"), id.String()...) }
func bookingKey(id uuid.UUID) []byte { return append([]byte("booking:"), id.String()...) }
func activeKey(id uuid.UUID) []byte  { return append([]byte("active:"), id.String()...) }

type Backend struct {
	db *badger.DB
}

func Open(cfg config.BadgerConfig, logger *slog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLoggingLevel(badger.ERROR)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errs.Wrap(err, "database opening failed")
	}
	logger.Info("badger opened", "path", cfg.Path, "in_memory", cfg.InMemory)
	return db, nil
}

func NewBackend(db *badger.DB) *Backend {
	return &Backend{db: db}
}

var _ kvstore.Backend = (*Backend)(nil)

func (b *Backend) LoadRoom(_ context.Context, id uuid.UUID) (*room.Room, error) {
	var r *room.Room
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err = kvstore.DecodeRoom(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, infra.NotFound("room not found")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (b *Backend) LoadRooms(_ context.Context) ([]*room.Room, error) {
	var out []*room.Room
	err := b.db.View(func(txn *badger.Txn) error {
		return scan(txn, roomPrefix, func(val []byte) error {
			r, err := kvstore.DecodeRoom(val)
			if err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	})
	return out, err
}

func (b *Backend) LoadBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	var bk *booking.Booking
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		bk, err = getBooking(txn, id)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, infra.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return bk, nil
}

func (b *Backend) LoadBookings(_ context.Context) ([]*booking.Booking, error) {
	var out []*booking.Booking
	err := b.db.View(func(txn *badger.Txn) error {
		return scan(txn, bookingPrefix, func(val []byte) error {
			bk, err := kvstore.DecodeBooking(val)
			if err != nil {
				return err
			}
			out = append(out, bk)
			return nil
		})
	})
	return out, err
}

func (b *Backend) LoadActiveBooking(_ context.Context, roomID uuid.UUID) (*booking.Booking, error) {
	var bk *booking.Booking
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(activeKey(roomID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var bookingID uuid.UUID
		if err := item.Value(func(val []byte) error {
			bookingID, err = uuid.ParseBytes(val)
			return err
		}); err != nil {
			return errs.Wrapf(err, "active booking index for room %s", roomID)
		}
		bk, err = getBooking(txn, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bk, nil
}

// Apply writes the whole change set in one read-write transaction.
func (b *Backend) Apply(ctx context.Context, cs kvstore.ChangeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		for _, r := range cs.PutRooms {
			data, err := kvstore.EncodeRoom(r)
			if err != nil {
				return err
			}
			if err := txn.Set(roomKey(r.ID()), data); err != nil {
				return err
			}
		}
		for _, id := range cs.DeleteRooms {
			if err := txn.Delete(roomKey(id)); err != nil {
				return err
			}
		}
		for _, bk := range cs.PutBookings {
			data, err := kvstore.EncodeBooking(bk)
			if err != nil {
				return err
			}
			if err := txn.Set(bookingKey(bk.ID()), data); err != nil {
				return err
			}
			if err := updateActiveIndex(txn, bk); err != nil {
				return err
			}
		}
		return nil
	})
}

func updateActiveIndex(txn *badger.Txn, bk *booking.Booking) error {
	key := activeKey(bk.RoomID())
	if bk.IsActive() {
		return txn.Set(key, []byte(bk.ID().String()))
	}
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	current, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if string(current) == bk.ID().String() {
		return txn.Delete(key)
	}
	return nil
}

func (b *Backend) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.db.IsClosed() {
		return errs.New("badger is closed")
	}
	return b.db.View(func(txn *badger.Txn) error { return nil })
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func getBooking(txn *badger.Txn, id uuid.UUID) (*booking.Booking, error) {
	item, err := txn.Get(bookingKey(id))
	if err != nil {
		return nil, err
	}
	var bk *booking.Booking
	err = item.Value(func(val []byte) error {
		bk, err = kvstore.DecodeBooking(val)
		return err
	})
	return bk, err
}

func scan(txn *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
