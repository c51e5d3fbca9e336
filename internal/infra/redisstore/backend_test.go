//go:build unit

package redisstore_test

import (
	"context"
	"testing"
	"time"

	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra/kvstore"
	"hotel-booking/internal/infra/kvstore/kvstoretest"
	"hotel-booking/internal/infra/redisstore"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/shared"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	suite.Run(t, &kvstoretest.BackendSuite{
		NewBackend: func() kvstore.Backend {
			mr.FlushAll()
			client := redisstore.NewClient(config.RedisConfig{Addr: mr.Addr()})
			return redisstore.NewBackend(client, "test:")
		},
	})
}

func TestRedisBackend_Layout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisstore.NewClient(config.RedisConfig{Addr: mr.Addr()})
	store := kvstore.NewStore(redisstore.NewBackend(client, "hotel:"), nil)
	defer store.Close()

	number, _ := room.NewNumber("101")
	r, err := room.NewRoom(number, room.CategorySuite, room.Price{}, false, time.Now())
	require.NoError(t, err)

	err = store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Rooms().Put(ctx, r)
	})
	require.NoError(t, err)

	raw := mr.HGet("hotel:rooms", r.ID().String())
	assert.Contains(t, raw, `"number":"101"`)
	assert.Contains(t, raw, `"category":"Suite"`)
	assert.False(t, mr.Exists("hotel:active_booking"))
}

func TestRedisBackend_PingFailsWhenDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisstore.NewClient(config.RedisConfig{Addr: mr.Addr()})
	backend := redisstore.NewBackend(client, "x:")
	defer backend.Close()

	require.NoError(t, backend.Ping(context.Background()))
	mr.Close()
	assert.Error(t, backend.Ping(context.Background()))
}
