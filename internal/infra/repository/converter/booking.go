package converter

import (
	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/infra/pgsql"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/pgconv"
)

func BookingToInsertParams(b *booking.Booking) pgsql.InsertBookingParams {
	return pgsql.InsertBookingParams{
		ID:        b.ID(),
		RoomID:    b.RoomID(),
		GuestName: b.GuestName(),
		CreatedAt: pgconv.TimeToPgtype(b.CreatedAt()),
	}
}

func BookingToCancelParams(b *booking.Booking) pgsql.CancelBookingParams {
	params := pgsql.CancelBookingParams{
		ID:          b.ID(),
		CancelledAt: pgconv.TimePtrToPgtype(b.CancelledAt()),
	}
	if reason := b.CancelReason(); reason != nil {
		params.CancelReason = reason.String()
	}
	return params
}

func BookingFromRow(row pgsql.BookingRow) (*booking.Booking, error) {
	var reason *booking.CancelReason
	if s := pgconv.StringPtrFromPgtype(row.CancelReason); s != nil {
		r := booking.CancelReason(*s)
		if !r.IsValid() {
			return nil, errs.Newf("booking %s: invalid cancel reason %q", row.ID, *s)
		}
		reason = &r
	}
	return booking.ReconstructBooking(
		row.ID,
		row.RoomID,
		row.GuestName,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimePtrFromPgtype(row.CancelledAt),
		reason,
	), nil
}
