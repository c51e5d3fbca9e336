//go:build unit

package booking_test

import (
	"testing"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/domain/room"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	guest, err := room.NewGuestName("  Alice ")
	require.NoError(t, err)

	t.Run("作成直後はアクティブ", func(t *testing.T) {
		b := booking.NewBooking(uuid.New(), guest, now)
		assert.True(t, b.IsActive())
		assert.Equal(t, "Alice", b.GuestName())
		assert.Nil(t, b.CancelledAt())
		assert.Nil(t, b.CancelReason())
	})

	t.Run("キャンセルで理由と時刻を記録", func(t *testing.T) {
		b := booking.NewBooking(uuid.New(), guest, now)
		at := now.Add(time.Hour)
		require.NoError(t, b.Cancel(booking.CancelReasonMaintenance, at))

		assert.False(t, b.IsActive())
		require.NotNil(t, b.CancelledAt())
		assert.Equal(t, at, *b.CancelledAt())
		assert.Equal(t, booking.CancelReasonMaintenance, *b.CancelReason())
	})

	t.Run("二重キャンセルNG", func(t *testing.T) {
		b := booking.NewBooking(uuid.New(), guest, now)
		require.NoError(t, b.Cancel(booking.CancelReasonAdmin, now))
		err := b.Cancel(booking.CancelReasonReset, now)
		assert.ErrorIs(t, err, booking.ErrAlreadyCancelled)
		assert.Equal(t, booking.CancelReasonAdmin, *b.CancelReason())
	})

	t.Run("不正な理由NG", func(t *testing.T) {
		b := booking.NewBooking(uuid.New(), guest, now)
		err := b.Cancel(booking.CancelReason("because"), now)
		assert.ErrorIs(t, err, booking.ErrInvalidCancelReason)
		assert.True(t, b.IsActive())
	})

	t.Run("Cloneは独立", func(t *testing.T) {
		b := booking.NewBooking(uuid.New(), guest, now)
		c := b.Clone()
		require.NoError(t, c.Cancel(booking.CancelReasonUnbook, now))
		assert.True(t, b.IsActive())
	})
}
