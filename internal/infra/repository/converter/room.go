package converter

import (
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra/pgsql"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/pgconv"
)

func RoomToUpsertParams(r *room.Room) pgsql.UpsertRoomParams {
	return pgsql.UpsertRoomParams{
		ID:         r.ID(),
		Number:     r.Number().String(),
		Category:   r.Category().String(),
		PriceCents: r.Price().Cents(),
		State:      r.State().String(),
		Occupant:   pgconv.StringPtrToPgtype(r.Occupant()),
		CreatedAt:  pgconv.TimeToPgtype(r.CreatedAt()),
		UpdatedAt:  pgconv.TimeToPgtype(r.UpdatedAt()),
	}
}

func RoomFromRow(row pgsql.RoomRow) (*room.Room, error) {
	number, err := room.NewNumber(row.Number)
	if err != nil {
		return nil, errs.Wrapf(err, "room %s", row.ID)
	}
	category, err := room.NewCategory(row.Category)
	if err != nil {
		return nil, errs.Wrapf(err, "room %s", row.ID)
	}
	price, err := room.NewPriceFromCents(row.PriceCents)
	if err != nil {
		return nil, errs.Wrapf(err, "room %s", row.ID)
	}
	state := room.State(row.State)
	if !state.IsValid() {
		return nil, errs.Newf("room %s: invalid state %q", row.ID, row.State)
	}
	return room.ReconstructRoom(
		row.ID,
		number,
		category,
		price,
		state,
		pgconv.StringPtrFromPgtype(row.Occupant),
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
