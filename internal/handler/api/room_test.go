//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"hotel-booking/internal/domain/event"
	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/handler/api"
	reqdto "hotel-booking/internal/handler/dto/request"
	resdto "hotel-booking/internal/handler/dto/response"
	commandsmock "hotel-booking/internal/mock/commands"
	queriesmock "hotel-booking/internal/mock/queries"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/testutil"
	"hotel-booking/internal/testutil/httptest"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RoomHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRoomCommands
	mockQueries  *queriesmock.MockRoomQueries
}

func (s *RoomHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(reqdto.RegisterValidations())
}

func (s *RoomHandlerTestSuite) SetupTest() {
	s.router = gin.New()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRoomCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockRoomQueries(s.mockCtrl)
	h := api.NewRoomHandler(s.mockCommands, s.mockQueries)

	s.router.GET("/rooms", h.List)
	s.router.GET("/rooms/:id", h.Get)
	s.router.GET("/admin/rooms", h.AdminList)
	s.router.POST("/admin/rooms", h.Create)
	s.router.PATCH("/admin/rooms/:id", h.Update)
	s.router.DELETE("/admin/rooms/:id", h.Delete)
	s.router.PATCH("/admin/rooms/:id/maintenance", h.SetMaintenance)
	s.router.POST("/admin/rooms/:id/unbook", h.Unbook)
	s.router.POST("/admin/reset", h.Reset)
}

func (s *RoomHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRoomHandlerSuite(t *testing.T) {
	suite.Run(t, new(RoomHandlerTestSuite))
}

func roomView(state string) *queries.RoomView {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := &queries.RoomView{
		ID:        uuid.New(),
		Number:    "101",
		Category:  "Double",
		Price:     120.5,
		State:     state,
		Available: state == "available",
		CreatedAt: now,
		UpdatedAt: now,
	}
	v.Maintenance = state == "maintenance"
	if state == "booked" {
		guest := "Alice"
		v.Occupant = &guest
	}
	return v
}

func conflictErr(op string, current room.State) error {
	return errs.Mark(&room.ConflictError{Op: op, Current: current}, errs.ErrConflict)
}

func (s *RoomHandlerTestSuite) TestList() {
	s.Run("公開一覧は200で部屋を返す", func() {
		views := []*queries.RoomView{roomView("available"), roomView("booked").Redacted()}
		s.mockQueries.EXPECT().ListRooms(gomock.Any(), event.AudiencePublic).Return(views, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms", nil, "")

		var res resdto.RoomListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Require().Len(res.Rooms, 2)
		s.Equal(views[0].ID, res.Rooms[0].ID)
		s.Nil(res.Rooms[1].Occupant)
		s.Contains(rec.Body.String(), `"occupant":null`)
	})

	s.Run("管理者一覧は宿泊者を含む", func() {
		views := []*queries.RoomView{roomView("booked")}
		s.mockQueries.EXPECT().ListRooms(gomock.Any(), event.AudienceAdmin).Return(views, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/rooms", nil, "")

		var res resdto.RoomListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Require().NotNil(res.Rooms[0].Occupant)
		s.Equal("Alice", *res.Rooms[0].Occupant)
	})

	s.Run("部屋がなければ空配列", func() {
		s.mockQueries.EXPECT().ListRooms(gomock.Any(), event.AudiencePublic).Return([]*queries.RoomView{}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"rooms":[]}`, rec.Body.String())
	})

	s.Run("ストア障害は500", func() {
		s.mockQueries.EXPECT().ListRooms(gomock.Any(), event.AudiencePublic).
			Return(nil, errs.Mark(errors.New("boom"), errs.ErrDatabaseOperationFailed))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *RoomHandlerTestSuite) TestGet() {
	s.Run("存在する部屋を返す", func() {
		v := roomView("available")
		s.mockQueries.EXPECT().GetRoom(gomock.Any(), v.ID, event.AudiencePublic).Return(v, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms/"+v.ID.String(), nil, "")

		var res resdto.RoomResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("101", res.Number)
		s.True(res.Available)
	})

	s.Run("不正なIDは400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("存在しない部屋は404", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetRoom(gomock.Any(), id, event.AudiencePublic).Return(nil, errs.ErrRoomNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Room not found")
	})
}

func (s *RoomHandlerTestSuite) TestCreate() {
	url := "/admin/rooms"
	price := 80.0
	valid := reqdto.CreateRoomRequest{Number: "201", Category: "Suite", Price: &price}

	s.Run("作成成功で201", func() {
		created := roomView("available")
		s.mockCommands.EXPECT().CreateRoom(gomock.Any(), commands.CreateRoomInput{
			Number: "201", Category: "Suite", Price: 80,
		}).Return(created, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, valid, "")

		var res resdto.RoomResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(created.ID, res.ID)
	})

	s.Run("入力検証", func() {
		cases := []struct {
			name       string
			mutate     func(map[string]any)
			expectCode int
		}{
			{name: "価格0はOK", mutate: testutil.Field("price", 0), expectCode: http.StatusCreated},
			{name: "番号20文字はOK", mutate: testutil.Field("number", strings.Repeat("9", 20)), expectCode: http.StatusCreated},
			{name: "番号21文字はNG", mutate: testutil.Field("number", strings.Repeat("9", 21)), expectCode: http.StatusBadRequest},
			{name: "負の価格はNG", mutate: testutil.Field("price", -1), expectCode: http.StatusBadRequest},
			{name: "未知のカテゴリはNG", mutate: testutil.Field("category", "Penthouse"), expectCode: http.StatusBadRequest},
			{name: "小文字カテゴリはNG", mutate: testutil.Field("category", "suite"), expectCode: http.StatusBadRequest},
			{name: "価格なしはNG", mutate: testutil.Field("price", nil), expectCode: http.StatusBadRequest},
			{name: "番号なしはNG", mutate: testutil.Field("number", nil), expectCode: http.StatusBadRequest},
			{name: "カテゴリなしはNG", mutate: testutil.Field("category", nil), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), valid, tc.mutate)
				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).Return(roomView("available"), nil)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				s.Equal(tc.expectCode, rec.Code, rec.Body.String())
			})
		}
	})

	s.Run("空白だけの番号はドメイン検証で400", func() {
		s.mockCommands.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(room.ErrEmptyNumber, errs.ErrValidation))

		body := testutil.DtoMap(s.T(), valid, testutil.Field("number", "   "))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "room number cannot be empty")
	})

	s.Run("番号重複は409", func() {
		s.mockCommands.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errors.New("unique"), errs.ErrDuplicateRoom))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, valid, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Room number already exists")
	})
}

func (s *RoomHandlerTestSuite) TestUpdate() {
	id := uuid.New()
	url := "/admin/rooms/" + id.String()

	s.Run("指定したフィールドだけ渡す", func() {
		price := 99.0
		s.mockCommands.EXPECT().UpdateRoom(gomock.Any(), id, commands.UpdateRoomInput{Price: &price}).
			Return(roomView("available"), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"price": 99}, "")
		s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	})

	s.Run("状態の変更は受け付けない", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"state": "available"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("不正なカテゴリは400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"category": "Hut"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("存在しない部屋は404", func() {
		s.mockCommands.EXPECT().UpdateRoom(gomock.Any(), id, gomock.Any()).Return(nil, errs.ErrRoomNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"number": "7"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Room not found")
	})
}

func (s *RoomHandlerTestSuite) TestDelete() {
	id := uuid.New()

	s.Run("削除成功で204", func() {
		s.mockCommands.EXPECT().DeleteRoom(gomock.Any(), id).Return(nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/admin/rooms/"+id.String(), nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("存在しない部屋は404", func() {
		s.mockCommands.EXPECT().DeleteRoom(gomock.Any(), id).Return(errs.ErrRoomNotFound)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/admin/rooms/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Room not found")
	})
}

func (s *RoomHandlerTestSuite) TestSetMaintenance() {
	id := uuid.New()
	url := "/admin/rooms/" + id.String() + "/maintenance"

	s.Run("メンテナンス開始", func() {
		s.mockCommands.EXPECT().SetMaintenance(gomock.Any(), id, true).Return(roomView("maintenance"), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"maintenance": true}, "")

		var res resdto.RoomResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.True(res.Maintenance)
	})

	s.Run("フラグなしは400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("既にメンテナンス中なら409と現在の状態", func() {
		s.mockCommands.EXPECT().SetMaintenance(gomock.Any(), id, true).
			Return(nil, conflictErr("enter maintenance", room.StateMaintenance))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"maintenance": true}, "")
		body := httptest.DecodeError(s.T(), rec)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("maintenance", body.Detail["currentState"])
	})
}

func (s *RoomHandlerTestSuite) TestUnbook() {
	id := uuid.New()
	url := "/admin/rooms/" + id.String() + "/unbook"

	s.Run("予約解除で空室に戻る", func() {
		s.mockCommands.EXPECT().UnbookRoom(gomock.Any(), id).Return(roomView("available"), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("予約されていない部屋は409", func() {
		s.mockCommands.EXPECT().UnbookRoom(gomock.Any(), id).
			Return(nil, conflictErr("release", room.StateAvailable))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		body := httptest.DecodeError(s.T(), rec)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("available", body.Detail["currentState"])
	})

	s.Run("不変条件違反は500で詳細を隠す", func() {
		s.mockCommands.EXPECT().UnbookRoom(gomock.Any(), id).
			Return(nil, errs.Mark(errors.New("room booked without booking"), errs.ErrInvariantViolated))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Room state is inconsistent")
		s.NotContains(rec.Body.String(), "without booking")
	})
}

func (s *RoomHandlerTestSuite) TestReset() {
	s.Run("件数を返す", func() {
		s.mockCommands.EXPECT().ResetAll(gomock.Any()).
			Return(&commands.ResetResult{RoomsReset: 3, BookingsCancelled: 2}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/reset", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"roomsReset":3,"bookingsCancelled":2}`, rec.Body.String())
	})
}
