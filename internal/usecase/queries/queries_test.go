//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"hotel-booking/internal/domain/event"
	"hotel-booking/internal/infra/kvstore"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discard struct{}

func (discard) Publish(event.Event) {}

func setup(t *testing.T) (*kvstore.Store, *commands.Workflow, *clock.MockClock) {
	t.Helper()
	store := kvstore.NewStore(kvstore.NewMemoryBackend(), nil)
	clk := clock.NewMockClock(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	return store, commands.NewWorkflow(store, discard{}, clk, nil), clk
}

func TestRoomQueries(t *testing.T) {
	ctx := context.Background()
	store, wf, _ := setup(t)
	created, err := wf.CreateRoom(ctx, commands.CreateRoomInput{Number: "101", Category: "Single", Price: 100})
	require.NoError(t, err)
	_, err = wf.Reserve(ctx, commands.ReserveInput{RoomID: created.ID, GuestName: "Alice"})
	require.NoError(t, err)

	q := queries.NewRoomQueries(store)

	t.Run("管理者には宿泊者名が見える", func(t *testing.T) {
		v, err := q.GetRoom(ctx, created.ID, event.AudienceAdmin)
		require.NoError(t, err)
		require.NotNil(t, v.Occupant)
		assert.Equal(t, "Alice", *v.Occupant)
	})

	t.Run("公開向けでは宿泊者名が隠される", func(t *testing.T) {
		rooms, err := q.ListRooms(ctx, event.AudiencePublic)
		require.NoError(t, err)
		require.Len(t, rooms, 1)

		want := &queries.RoomView{
			ID:        created.ID,
			Number:    "101",
			Category:  "Single",
			Price:     100,
			State:     "booked",
			CreatedAt: created.CreatedAt,
		}
		if diff := cmp.Diff(want, rooms[0], ignoreUpdatedAt); diff != "" {
			t.Errorf("room view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("存在しない部屋はErrRoomNotFound", func(t *testing.T) {
		_, err := q.GetRoom(ctx, uuid.New(), event.AudiencePublic)
		assert.ErrorIs(t, err, errs.ErrRoomNotFound)
	})
}

var ignoreUpdatedAt = cmp.FilterPath(func(p cmp.Path) bool {
	return p.Last().String() == ".UpdatedAt"
}, cmp.Ignore())

func TestBookingQueries_ListBookings(t *testing.T) {
	ctx := context.Background()
	store, wf, clk := setup(t)

	keep, err := wf.CreateRoom(ctx, commands.CreateRoomInput{Number: "201", Category: "Double", Price: 120.5})
	require.NoError(t, err)
	gone, err := wf.CreateRoom(ctx, commands.CreateRoomInput{Number: "202", Category: "Twin", Price: 90})
	require.NoError(t, err)

	clk.Add(time.Minute)
	first, err := wf.Reserve(ctx, commands.ReserveInput{RoomID: gone.ID, GuestName: "Alice"})
	require.NoError(t, err)
	clk.Add(time.Minute)
	second, err := wf.Reserve(ctx, commands.ReserveInput{RoomID: keep.ID, GuestName: "Bob"})
	require.NoError(t, err)
	require.NoError(t, wf.DeleteRoom(ctx, gone.ID))

	views, err := queries.NewBookingQueries(store).ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, second.Booking.ID, views[0].ID, "newest first")
	assert.True(t, views[0].Active)
	require.NotNil(t, views[0].Room)
	assert.Equal(t, queries.RoomSummary{Number: "201", Category: "Double", Price: 120.5}, *views[0].Room)

	assert.Equal(t, first.Booking.ID, views[1].ID)
	assert.False(t, views[1].Active)
	assert.Nil(t, views[1].Room, "deleted room has no summary")
	require.NotNil(t, views[1].CancelReason)
	assert.Equal(t, "room_deleted", *views[1].CancelReason)
}
