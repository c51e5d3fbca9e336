package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/jwt"
	"hotel-booking/internal/pkg/password"
)

//go:generate mockgen -source=auth.go -destination=../mock/usecase/auth.go -package=usecasemock

var ErrTokenGeneration = errs.New("token generation failed")

type LoginResult struct {
	Username    string
	AccessToken string
}

// AuthUseCase authenticates the single configured console account.
type AuthUseCase interface {
	Login(ctx context.Context, username, plainPassword string) (*LoginResult, error)
}

type authUseCaseImpl struct {
	admin      config.AdminConfig
	jwtService *jwt.Service
}

func NewAuthUseCase(admin config.AdminConfig, jwtService *jwt.Service) AuthUseCase {
	return &authUseCaseImpl{
		admin:      admin,
		jwtService: jwtService,
	}
}

func (a *authUseCaseImpl) Login(_ context.Context, username, plainPassword string) (*LoginResult, error) {
	// Compare the password even on an unknown username so both failures cost the same
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.admin.Username)) == 1
	pwErr := password.ComparePassword(a.admin.PasswordHash, plainPassword)
	if !userOK || pwErr != nil {
		slog.Warn("admin login rejected", "username_matched", userOK)
		return nil, errs.ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(a.admin.Username, jwt.RoleAdmin)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &LoginResult{
		Username:    a.admin.Username,
		AccessToken: token,
	}, nil
}
