//go:build unit

package pgconv_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"hotel-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(fmt.Errorf("get room: %w", sql.ErrNoRows)))
	assert.False(t, pgconv.IsNoRows(errors.New("boom")))

	assert.True(t, pgconv.IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, pgconv.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, pgconv.IsUniqueViolation(nil))
}

func TestPgtypeConversions(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	at := time.Date(2026, 4, 1, 9, 0, 0, 0, jst)

	t.Run("時刻はUTCで取り出す", func(t *testing.T) {
		got := pgconv.TimeFromPgtype(pgconv.TimeToPgtype(at))
		assert.True(t, got.Equal(at))
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("nilはNULL", func(t *testing.T) {
		assert.False(t, pgconv.TimePtrToPgtype(nil).Valid)
		assert.Nil(t, pgconv.TimePtrFromPgtype(pgtype.Timestamptz{}))
		assert.False(t, pgconv.StringPtrToPgtype(nil).Valid)
		assert.Nil(t, pgconv.StringPtrFromPgtype(pgtype.Text{}))
	})

	t.Run("文字列ポインタの往復", func(t *testing.T) {
		s := "Alice"
		got := pgconv.StringPtrFromPgtype(pgconv.StringPtrToPgtype(&s))
		if assert.NotNil(t, got) {
			assert.Equal(t, "Alice", *got)
		}
	})
}
