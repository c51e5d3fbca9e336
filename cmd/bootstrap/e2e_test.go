//go:build e2e

package bootstrap_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"hotel-booking/cmd/bootstrap"
	"hotel-booking/cmd/bootstrap/components"
	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/password"
	"hotel-booking/internal/testutil/httptest"
	"hotel-booking/internal/testutil/pgtest"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

// ------------------------------------------------------------
// PostgreSQLストアでアプリ全体を起動するE2Eスイート
// ------------------------------------------------------------
type postgresAppSuite struct {
	suite.Suite
	router *gin.Engine
	pool   *pgxpool.Pool
	app    *fx.App
	token  string
}

func TestPostgresAppSuite(t *testing.T) {
	suite.Run(t, new(postgresAppSuite))
}

func (s *postgresAppSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	pool, dbConfig := pgtest.PrepareDatabase(s.T())
	s.pool = pool

	cfg := config.NewTestConfig()
	cfg.Store.Driver = config.StoreDriverPostgres
	cfg.DB = dbConfig
	hash, err := password.HashPasswordWithCost("s3cret", bcrypt.MinCost)
	s.Require().NoError(err)
	cfg.Admin.PasswordHash = hash

	s.app = fx.New(
		fx.Supply(cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.StoreModule,
		bootstrap.BroadcastModule,
		bootstrap.HealthModule,
		bootstrap.JWTModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&s.router),
		// ログを無効にして起動
		fx.NopLogger,
	)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(s.app.Start(ctx), "fxアプリケーションの起動に失敗しました")

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/login",
		map[string]any{"username": "admin", "password": "s3cret"}, "")
	var login resdto.LoginResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &login)
	s.token = login.AccessToken
}

func (s *postgresAppSuite) TearDownSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.NoError(s.app.Stop(ctx))
}

func (s *postgresAppSuite) SetupSubTest() {
	pgtest.Truncate(s.T(), s.pool)
}

func (s *postgresAppSuite) TestRoomLifecycle() {
	s.Run("作成・予約・削除で予約履歴が残る", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/rooms",
			map[string]any{"number": "301", "category": "Family", "price": 210}, s.token)
		var created resdto.RoomResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &created)

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings",
			map[string]any{"roomId": created.ID, "guestName": "Carol"}, "")
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodDelete,
			"/api/admin/rooms/"+created.ID.String(), nil, s.token)
		s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/bookings", nil, s.token)
		var list resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &list)
		s.Require().Len(list.Bookings, 1)
		s.Nil(list.Bookings[0].Room)
		s.False(list.Bookings[0].Active)
		s.Equal("room_deleted", *list.Bookings[0].CancelReason)
	})

	s.Run("部屋番号の重複は409", func() {
		body := map[string]any{"number": "401", "category": "Single", "price": 80}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/rooms", body, s.token)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/rooms", body, s.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Room number already exists")
	})

	s.Run("管理ヘルスチェックはPostgreSQLを報告する", func() {
		require.Eventually(s.T(), func() bool {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/health", nil, s.token)
			return rec.Code == http.StatusOK
		}, 5*time.Second, 50*time.Millisecond)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/health", nil, s.token)
		s.Contains(rec.Body.String(), `"driver":"postgres"`)
		s.Contains(rec.Body.String(), `"reachable":true`)
	})
}
