package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// SessionSubject is the subject of every session token; the application has
// a single user.
const SessionSubject = "owner"

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrAuthDisabled    = errors.New("login is disabled: no passcode configured")
)

// DTOs
type LoginRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService checks the owner's passcode and issues session tokens.
type AuthService interface {
	Enabled() bool
	Login(req LoginRequest) (*TokenResponse, error)
	ValidateToken(tokenString string) error
}

type authService struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthService(passwordHash, secret string, ttl time.Duration) AuthService {
	return &authService{passwordHash: []byte(passwordHash), secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *authService) Enabled() bool {
	return len(s.passwordHash) > 0
}

func (s *authService) Login(req LoginRequest) (*TokenResponse, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Passcode)); err != nil {
		return nil, ErrInvalidPasscode
	}

	expiresAt := s.now().Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   SessionSubject,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{Token: tokenString, ExpiresAt: expiresAt}, nil
}

func (s *authService) ValidateToken(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Subject != SessionSubject {
		return errors.New("invalid token")
	}
	return nil
}
