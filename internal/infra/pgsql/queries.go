// Package pgsql holds the SQL and row types used by the PostgreSQL repositories.
package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RoomRow struct {
	ID         uuid.UUID
	Number     string
	Category   string
	PriceCents int64
	State      string
	Occupant   pgtype.Text
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type BookingRow struct {
	ID           uuid.UUID
	RoomID       uuid.UUID
	GuestName    string
	CreatedAt    pgtype.Timestamptz
	CancelledAt  pgtype.Timestamptz
	CancelReason pgtype.Text
}

type UpsertRoomParams struct {
	ID         uuid.UUID
	Number     string
	Category   string
	PriceCents int64
	State      string
	Occupant   pgtype.Text
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type InsertBookingParams struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	GuestName string
	CreatedAt pgtype.Timestamptz
}

type CancelBookingParams struct {
	ID           uuid.UUID
	CancelledAt  pgtype.Timestamptz
	CancelReason string
}

// Queries holds the SQL for rooms and bookings. It carries no state; the
// connection or transaction is passed per call.
type Queries struct{}

func NewQueries() *Queries {
	return &Queries{}
}

const roomColumns = `id, number, category, price_cents, state, occupant, created_at, updated_at`

const getRoom = `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

func (q *Queries) GetRoom(ctx context.Context, db DBTX, id uuid.UUID) (RoomRow, error) {
	return scanRoom(db.QueryRow(ctx, getRoom, id))
}

const listRooms = `SELECT ` + roomColumns + ` FROM rooms ORDER BY created_at, number`

func (q *Queries) ListRooms(ctx context.Context, db DBTX) ([]RoomRow, error) {
	rows, err := db.Query(ctx, listRooms)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RoomRow
	for rows.Next() {
		i, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertRoom = `
INSERT INTO rooms (id, number, category, price_cents, state, occupant, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    number      = EXCLUDED.number,
    category    = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    state       = EXCLUDED.state,
    occupant    = EXCLUDED.occupant,
    updated_at  = EXCLUDED.updated_at`

func (q *Queries) UpsertRoom(ctx context.Context, db DBTX, arg UpsertRoomParams) error {
	_, err := db.Exec(ctx, upsertRoom,
		arg.ID, arg.Number, arg.Category, arg.PriceCents, arg.State, arg.Occupant, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const deleteRoom = `DELETE FROM rooms WHERE id = $1`

func (q *Queries) DeleteRoom(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, deleteRoom, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const bookingColumns = `id, room_id, guest_name, created_at, cancelled_at, cancel_reason`

const getBooking = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

func (q *Queries) GetBooking(ctx context.Context, db DBTX, id uuid.UUID) (BookingRow, error) {
	return scanBooking(db.QueryRow(ctx, getBooking, id))
}

const getActiveBookingByRoom = `SELECT ` + bookingColumns + ` FROM bookings WHERE room_id = $1 AND cancelled_at IS NULL`

func (q *Queries) GetActiveBookingByRoom(ctx context.Context, db DBTX, roomID uuid.UUID) (BookingRow, error) {
	return scanBooking(db.QueryRow(ctx, getActiveBookingByRoom, roomID))
}

const listBookings = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at, id`

func (q *Queries) ListBookings(ctx context.Context, db DBTX) ([]BookingRow, error) {
	rows, err := db.Query(ctx, listBookings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BookingRow
	for rows.Next() {
		i, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertBooking = `INSERT INTO bookings (id, room_id, guest_name, created_at) VALUES ($1, $2, $3, $4)`

func (q *Queries) InsertBooking(ctx context.Context, db DBTX, arg InsertBookingParams) error {
	_, err := db.Exec(ctx, insertBooking, arg.ID, arg.RoomID, arg.GuestName, arg.CreatedAt)
	return err
}

const cancelBooking = `
UPDATE bookings SET cancelled_at = $2, cancel_reason = $3
WHERE id = $1 AND cancelled_at IS NULL`

func (q *Queries) CancelBooking(ctx context.Context, db DBTX, arg CancelBookingParams) (int64, error) {
	tag, err := db.Exec(ctx, cancelBooking, arg.ID, arg.CancelledAt, arg.CancelReason)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRoom(row pgx.Row) (RoomRow, error) {
	var i RoomRow
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Category,
		&i.PriceCents,
		&i.State,
		&i.Occupant,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanBooking(row pgx.Row) (BookingRow, error) {
	var i BookingRow
	err := row.Scan(
		&i.ID,
		&i.RoomID,
		&i.GuestName,
		&i.CreatedAt,
		&i.CancelledAt,
		&i.CancelReason,
	)
	return i, err
}
