package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the bcrypt input limit in bytes. The login form enforces the same bound.
const MaxLength = 72

var (
	ErrHashingFailed    = errors.New("password hashing failed")
	ErrComparisonFailed = errors.New("password comparison failed")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrTooLong          = errors.New("password exceeds 72 bytes")
	ErrInvalidHash      = errors.New("not a bcrypt hash")
)

func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, bcrypt.DefaultCost)
}

// HashPasswordWithCost lets tests use bcrypt.MinCost.
func HashPasswordWithCost(password string, cost int) (string, error) {
	if err := checkInput(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

func ComparePassword(hashedPassword, password string) error {
	if hashedPassword == "" {
		return ErrInvalidPassword
	}
	if err := checkInput(password); err != nil {
		return err
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrComparisonFailed
	default:
		return err
	}
}

// ValidateHash checks that a configured hash can ever match, so a typo in the
// admin credential fails at startup rather than at the first login.
func ValidateHash(hashedPassword string) error {
	if _, err := bcrypt.Cost([]byte(hashedPassword)); err != nil {
		return ErrInvalidHash
	}
	return nil
}

func checkInput(password string) error {
	switch {
	case password == "":
		return ErrInvalidPassword
	case len(password) > MaxLength:
		return ErrTooLong
	}
	return nil
}
