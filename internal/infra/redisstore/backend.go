// Package redisstore persists rooms and bookings in Redis hashes.
//
// Layout, all under the configured prefix:
//
//	rooms           hash  room id    -> room record (JSON)
//	bookings        hash  booking id -> booking record (JSON)
//	active_booking  hash  room id    -> id of its active booking
//
// A change set is committed with MULTI/EXEC so readers see all of it or none.
package redisstore

import (
	"context"
	"errors"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/kvstore"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type Backend struct {
	client *redis.Client
	keys   keys
}

type keys struct {
	rooms    string
	bookings string
	active   string
}

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewBackend(client *redis.Client, prefix string) *Backend {
	return &Backend{
		client: client,
		keys: keys{
			rooms:    prefix + "rooms",
			bookings: prefix + "bookings",
			active:   prefix + "active_booking",
		},
	}
}

var _ kvstore.Backend = (*Backend)(nil)

func (b *Backend) LoadRoom(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	raw, err := b.client.HGet(ctx, b.keys.rooms, id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, infra.NotFound("room not found")
		}
		return nil, errs.Wrap(err, "redis HGET room")
	}
	return kvstore.DecodeRoom(raw)
}

func (b *Backend) LoadRooms(ctx context.Context) ([]*room.Room, error) {
	all, err := b.client.HGetAll(ctx, b.keys.rooms).Result()
	if err != nil {
		return nil, errs.Wrap(err, "redis HGETALL rooms")
	}
	out := make([]*room.Room, 0, len(all))
	for _, raw := range all {
		r, err := kvstore.DecodeRoom([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *Backend) LoadBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	raw, err := b.client.HGet(ctx, b.keys.bookings, id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, infra.NotFound("booking not found")
		}
		return nil, errs.Wrap(err, "redis HGET booking")
	}
	return kvstore.DecodeBooking(raw)
}

func (b *Backend) LoadBookings(ctx context.Context) ([]*booking.Booking, error) {
	all, err := b.client.HGetAll(ctx, b.keys.bookings).Result()
	if err != nil {
		return nil, errs.Wrap(err, "redis HGETALL bookings")
	}
	out := make([]*booking.Booking, 0, len(all))
	for _, raw := range all {
		bk, err := kvstore.DecodeBooking([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, bk)
	}
	return out, nil
}

func (b *Backend) LoadActiveBooking(ctx context.Context, roomID uuid.UUID) (*booking.Booking, error) {
	id, err := b.client.HGet(ctx, b.keys.active, roomID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "redis HGET active booking")
	}
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, errs.Wrapf(err, "active booking index for room %s", roomID)
	}
	return b.LoadBooking(ctx, bookingID)
}

func (b *Backend) Apply(ctx context.Context, cs kvstore.ChangeSet) error {
	// encode first so a bad record never leaves a half-queued transaction
	roomVals := make([]any, 0, 2*len(cs.PutRooms))
	for _, r := range cs.PutRooms {
		data, err := kvstore.EncodeRoom(r)
		if err != nil {
			return errs.Wrap(err, "encode room")
		}
		roomVals = append(roomVals, r.ID().String(), data)
	}
	bookingVals := make([]any, 0, 2*len(cs.PutBookings))
	for _, bk := range cs.PutBookings {
		data, err := kvstore.EncodeBooking(bk)
		if err != nil {
			return errs.Wrap(err, "encode booking")
		}
		bookingVals = append(bookingVals, bk.ID().String(), data)
	}

	// cancelled bookings drop their index entry only if it still points at them
	var stale []*booking.Booking
	for _, bk := range cs.PutBookings {
		if bk.IsActive() {
			continue
		}
		current, err := b.client.HGet(ctx, b.keys.active, bk.RoomID().String()).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return errs.Wrap(err, "redis HGET active booking")
		}
		if current == bk.ID().String() {
			stale = append(stale, bk)
		}
	}

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(roomVals) > 0 {
			pipe.HSet(ctx, b.keys.rooms, roomVals...)
		}
		if len(cs.DeleteRooms) > 0 {
			fields := make([]string, 0, len(cs.DeleteRooms))
			for _, id := range cs.DeleteRooms {
				fields = append(fields, id.String())
			}
			pipe.HDel(ctx, b.keys.rooms, fields...)
		}
		if len(bookingVals) > 0 {
			pipe.HSet(ctx, b.keys.bookings, bookingVals...)
		}
		for _, bk := range stale {
			pipe.HDel(ctx, b.keys.active, bk.RoomID().String())
		}
		for _, bk := range cs.PutBookings {
			if bk.IsActive() {
				pipe.HSet(ctx, b.keys.active, bk.RoomID().String(), bk.ID().String())
			}
		}
		return nil
	})
	if err != nil {
		return errs.Wrap(err, "redis MULTI/EXEC")
	}
	return nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Backend) Close() error {
	return b.client.Close()
}
