package usecase

import (
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/jwt"
)

//go:generate mockgen -source=token_validator.go -destination=../mock/usecase/token_validator.go -package=usecasemock

var ErrNotAdmin = errs.New("token does not grant admin access")

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	// ValidateToken returns the admin username the token was issued to.
	ValidateToken(tokenString string) (string, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (string, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Role != jwt.RoleAdmin {
		return "", ErrNotAdmin
	}
	return claims.Subject, nil
}
