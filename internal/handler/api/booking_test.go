//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"hotel-booking/internal/domain/booking"
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

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
}

func (s *BookingHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(reqdto.RegisterValidations())
}

func (s *BookingHandlerTestSuite) SetupTest() {
	s.router = gin.New()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	h := api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/bookings", h.Reserve)
	s.router.GET("/admin/bookings", h.List)
	s.router.DELETE("/admin/bookings/:id", h.Cancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func bookingView(roomID uuid.UUID, guest string) *queries.BookingView {
	return &queries.BookingView{
		ID:        uuid.New(),
		RoomID:    roomID,
		GuestName: guest,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Active:    true,
		Room:      &queries.RoomSummary{Number: "101", Category: "Double", Price: 120.5},
	}
}

func (s *BookingHandlerTestSuite) TestReserve() {
	url := "/bookings"
	roomID := uuid.New()
	valid := reqdto.ReserveRequest{RoomID: roomID, GuestName: "Alice"}

	s.Run("予約成功で201と予約・部屋を返す", func() {
		booked := roomView("booked")
		booked.ID = roomID
		s.mockCommands.EXPECT().Reserve(gomock.Any(), commands.ReserveInput{RoomID: roomID, GuestName: "Alice"}).
			Return(&commands.ReserveResult{Booking: bookingView(roomID, "Alice"), Room: booked}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, valid, "")

		var res resdto.ReserveResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal("Alice", res.Booking.GuestName)
		s.Equal(roomID, res.Booking.RoomID)
		s.Equal("booked", res.Room.State)
		s.Require().NotNil(res.Booking.Room)
		s.Equal("101", res.Booking.Room.Number)
	})

	s.Run("入力検証", func() {
		cases := []struct {
			name       string
			mutate     func(map[string]any)
			expectCode int
		}{
			{name: "氏名100文字はOK", mutate: testutil.Field("guestName", strings.Repeat("a", 100)), expectCode: http.StatusCreated},
			{name: "氏名101文字はNG", mutate: testutil.Field("guestName", strings.Repeat("a", 101)), expectCode: http.StatusBadRequest},
			{name: "氏名なしはNG", mutate: testutil.Field("guestName", nil), expectCode: http.StatusBadRequest},
			{name: "部屋IDなしはNG", mutate: testutil.Field("roomId", nil), expectCode: http.StatusBadRequest},
			{name: "部屋IDが不正", mutate: testutil.Field("roomId", "room-1"), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), valid, tc.mutate)
				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
						Return(&commands.ReserveResult{Booking: bookingView(roomID, "x"), Room: roomView("booked")}, nil)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				s.Equal(tc.expectCode, rec.Code, rec.Body.String())
			})
		}
	})

	s.Run("空白だけの氏名は400", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(room.ErrEmptyGuestName, errs.ErrValidation))

		body := testutil.DtoMap(s.T(), valid, testutil.Field("guestName", "  "))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "guest name cannot be empty")
	})

	s.Run("先に予約されていたら409と現在の状態", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			Return(nil, conflictErr("book", room.StateBooked))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, valid, "")
		body := httptest.DecodeError(s.T(), rec)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("room is no longer available (current state: booked)", body.Error.Message)
		s.Equal("booked", body.Detail["currentState"])
	})

	s.Run("存在しない部屋は404", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil, errs.ErrRoomNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, valid, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Room not found")
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	s.Run("削除済みの部屋はnullで返す", func() {
		reason := booking.CancelReasonRoomDeleted.String()
		cancelledAt := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
		orphan := bookingView(uuid.New(), "Bob")
		orphan.Room = nil
		orphan.Active = false
		orphan.CancelledAt = &cancelledAt
		orphan.CancelReason = &reason
		live := bookingView(uuid.New(), "Alice")

		s.mockQueries.EXPECT().ListBookings(gomock.Any()).Return([]*queries.BookingView{live, orphan}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/bookings", nil, "")

		var res resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Require().Len(res.Bookings, 2)
		s.NotNil(res.Bookings[0].Room)
		s.Nil(res.Bookings[1].Room)
		s.Equal("room_deleted", *res.Bookings[1].CancelReason)
		s.False(res.Bookings[1].Active)
		s.Contains(rec.Body.String(), `"room":null`)
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	id := uuid.New()
	url := "/admin/bookings/" + id.String()

	s.Run("取消成功", func() {
		v := bookingView(uuid.New(), "Alice")
		v.ID = id
		v.Active = false
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), id).Return(v, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")

		var res resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal(id, res.ID)
		s.False(res.Active)
	})

	s.Run("取消済みは409", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), id).
			Return(nil, errs.Mark(booking.ErrAlreadyCancelled, errs.ErrConflict))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Booking is already cancelled")
	})

	s.Run("存在しない予約は404", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), id).Return(nil, errs.ErrBookingNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}
