//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"hotel-booking/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	t.Run("発行したトークンを検証できる", func(t *testing.T) {
		svc := jwt.NewService("secret", time.Hour)

		token, err := svc.GenerateToken("admin", jwt.RoleAdmin)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Subject)
		assert.Equal(t, jwt.RoleAdmin, claims.Role)
	})

	t.Run("異なる秘密鍵のトークンは無効", func(t *testing.T) {
		token, err := jwt.NewService("one", time.Hour).GenerateToken("admin", jwt.RoleAdmin)
		require.NoError(t, err)

		_, err = jwt.NewService("two", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("期限切れトークンはErrExpiredToken", func(t *testing.T) {
		svc := jwt.NewService("secret", -time.Minute)

		token, err := svc.GenerateToken("admin", jwt.RoleAdmin)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("発行者が異なるトークンは無効", func(t *testing.T) {
		claims := jwt.Claims{
			Role: jwt.RoleAdmin,
			RegisteredClaims: gojwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "admin",
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = jwt.NewService("secret", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("HS256以外の署名は無効", func(t *testing.T) {
		claims := jwt.Claims{
			Role: jwt.RoleAdmin,
			RegisteredClaims: gojwt.RegisteredClaims{
				Issuer:    jwt.Issuer,
				Subject:   "admin",
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = jwt.NewService("secret", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("有効期限のないトークンは無効", func(t *testing.T) {
		claims := jwt.Claims{
			Role:             jwt.RoleAdmin,
			RegisteredClaims: gojwt.RegisteredClaims{Issuer: jwt.Issuer, Subject: "admin"},
		}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = jwt.NewService("secret", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("壊れたトークンは無効", func(t *testing.T) {
		_, err := jwt.NewService("secret", time.Hour).ValidateToken("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
