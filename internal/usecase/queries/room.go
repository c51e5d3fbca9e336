package queries

import (
	"context"

	"hotel-booking/internal/domain/event"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

//go:generate mockgen -source=room.go -destination=../../mock/queries/room.go -package=queriesmock

// RoomQueries reads committed room state without taking the room guard.
type RoomQueries interface {
	ListRooms(ctx context.Context, audience event.Audience) ([]*RoomView, error)
	GetRoom(ctx context.Context, id uuid.UUID, audience event.Audience) (*RoomView, error)
}

type roomQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewRoomQueries(uow shared.UnitOfWork) RoomQueries {
	return &roomQueriesImpl{uow: uow}
}

func (q *roomQueriesImpl) ListRooms(ctx context.Context, audience event.Audience) ([]*RoomView, error) {
	rooms, err := q.uow.Reads().Rooms().ListAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	views := lo.Map(rooms, func(r *room.Room, _ int) *RoomView {
		return forAudience(NewRoomView(r), audience)
	})
	return views, nil
}

func (q *roomQueriesImpl) GetRoom(ctx context.Context, id uuid.UUID, audience event.Audience) (*RoomView, error) {
	r, err := q.uow.Reads().Rooms().Get(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return forAudience(NewRoomView(r), audience), nil
}

func forAudience(v *RoomView, audience event.Audience) *RoomView {
	if audience == event.AudienceAdmin {
		return v
	}
	return v.Redacted()
}
