package repository

import (
	"context"
	"log/slog"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/pgsql"
	"hotel-booking/internal/infra/repository/converter"
	"hotel-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetBooking(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.BookingRow, error)
	GetActiveBookingByRoom(ctx context.Context, db pgsql.DBTX, roomID uuid.UUID) (pgsql.BookingRow, error)
	ListBookings(ctx context.Context, db pgsql.DBTX) ([]pgsql.BookingRow, error)
	InsertBooking(ctx context.Context, db pgsql.DBTX, arg pgsql.InsertBookingParams) error
	CancelBooking(ctx context.Context, db pgsql.DBTX, arg pgsql.CancelBookingParams) (int64, error)
}

// BookingRepository is the PostgreSQL Booking Ledger. Rows are never deleted.
type BookingRepository struct {
	queries BookingQueries
	db      pgsql.DBTX
	logger  *slog.Logger
}

func NewBookingRepository(queries BookingQueries, db pgsql.DBTX, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBooking(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NotFound("booking not found")
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to get booking", err)
	}
	return r.fromRow(row)
}

func (r *BookingRepository) FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetActiveBookingByRoom(ctx, r.db, roomID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to get active booking", err)
	}
	return r.fromRow(row)
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]*booking.Booking, error) {
	rows, err := r.queries.ListBookings(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list bookings", err)
	}
	out := make([]*booking.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := r.fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *BookingRepository) Append(ctx context.Context, b *booking.Booking) error {
	if err := r.queries.InsertBooking(ctx, r.db, converter.BookingToInsertParams(b)); err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "room already has an active booking", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to append booking", err)
	}
	return nil
}

func (r *BookingRepository) MarkCancelled(ctx context.Context, b *booking.Booking) error {
	if b.IsActive() {
		return infra.WrapRepoErr(r.logger, infra.KindConflict, "booking is not cancelled", nil)
	}
	n, err := r.queries.CancelBooking(ctx, r.db, converter.BookingToCancelParams(b))
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to cancel booking", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := r.FindByID(ctx, b.ID()); err != nil {
		return err
	}
	return infra.WrapRepoErr(r.logger, infra.KindConflict, "booking already cancelled", nil)
}

func (r *BookingRepository) fromRow(row pgsql.BookingRow) (*booking.Booking, error) {
	b, err := converter.BookingFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "corrupt booking row", err)
	}
	return b, nil
}
