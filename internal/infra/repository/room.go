package repository

import (
	"context"
	"log/slog"

	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/pgsql"
	"hotel-booking/internal/infra/repository/converter"
	"hotel-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type RoomQueries interface {
	GetRoom(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.RoomRow, error)
	ListRooms(ctx context.Context, db pgsql.DBTX) ([]pgsql.RoomRow, error)
	UpsertRoom(ctx context.Context, db pgsql.DBTX, arg pgsql.UpsertRoomParams) error
	DeleteRoom(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (int64, error)
}

// RoomRepository is the PostgreSQL Room Store. db is the pool for reads or the
// transaction inside a unit of work.
type RoomRepository struct {
	queries RoomQueries
	db      pgsql.DBTX
	logger  *slog.Logger
}

func NewRoomRepository(queries RoomQueries, db pgsql.DBTX, logger *slog.Logger) *RoomRepository {
	return &RoomRepository{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *RoomRepository) Get(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	row, err := r.queries.GetRoom(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NotFound("room not found")
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to get room", err)
	}
	rm, err := converter.RoomFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "corrupt room row", err)
	}
	return rm, nil
}

func (r *RoomRepository) ListAll(ctx context.Context) ([]*room.Room, error) {
	rows, err := r.queries.ListRooms(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list rooms", err)
	}
	out := make([]*room.Room, 0, len(rows))
	for _, row := range rows {
		rm, err := converter.RoomFromRow(row)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "corrupt room row", err)
		}
		out = append(out, rm)
	}
	return out, nil
}

func (r *RoomRepository) Put(ctx context.Context, rm *room.Room) error {
	if err := r.queries.UpsertRoom(ctx, r.db, converter.RoomToUpsertParams(rm)); err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "room number already exists", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save room", err)
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteRoom(ctx, r.db, id)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to delete room", err)
	}
	if n == 0 {
		return infra.NotFound("room not found")
	}
	return nil
}
