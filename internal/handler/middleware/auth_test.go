//go:build unit

package middleware_test

import (
	"net/http"
	"testing"

	"hotel-booking/internal/handler/middleware"
	usecasemock "hotel-booking/internal/mock/usecase"
	"hotel-booking/internal/pkg/cookie"
	"hotel-booking/internal/testutil/httptest"
	"hotel-booking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockValidator *usecasemock.MockTokenValidator
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockValidator = usecasemock.NewMockTokenValidator(s.mockCtrl)

	m := middleware.NewAuthMiddleware(s.mockValidator)
	s.router.GET("/admin/ping", m.RequireAdmin(), func(c *gin.Context) {
		subject, _ := middleware.GetAdminSubject(c)
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})
}

func (s *AuthMiddlewareTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) TestRequireAdmin() {
	s.Run("Bearerトークンで通過", func() {
		s.mockValidator.EXPECT().ValidateToken("bearer-token").Return("admin", nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/ping", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"subject":"admin"}`, rec.Body.String())
	})

	s.Run("CookieはBearerより優先", func() {
		s.mockValidator.EXPECT().ValidateToken("cookie-token").Return("admin", nil)

		cookies := []*http.Cookie{{Name: cookie.AccessTokenCookieName, Value: "cookie-token"}}
		rec := httptest.PerformRequestWithCookies(s.T(), s.router, http.MethodGet, "/admin/ping", nil, cookies, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("トークンなしは401", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/ping", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("管理者でないトークンは401", func() {
		s.mockValidator.EXPECT().ValidateToken("viewer-token").Return("", usecase.ErrNotAdmin)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/ping", nil, "viewer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}
