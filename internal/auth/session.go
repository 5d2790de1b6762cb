package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "inventory_auth"
	SessionTTL = 7 * 24 * time.Hour

	subject = "staff"
	issuer  = "inventory"
)

var (
	ErrPINNotConfigured = errors.New("PIN not configured")
	ErrInvalidPIN       = errors.New("invalid PIN")
	ErrInvalidSession   = errors.New("invalid session")
)

// Sessions emite y verifica el token de sesión que viaja en la cookie
type Sessions struct {
	pin          string
	secret       []byte
	ttl          time.Duration
	secureCookie bool
	now          func() time.Time
}

func NewSessions(pin, secret string, secureCookie bool) *Sessions {
	if secret == "" {
		secret = pin
	}
	return &Sessions{
		pin:          pin,
		secret:       []byte(secret),
		ttl:          SessionTTL,
		secureCookie: secureCookie,
		now:          time.Now,
	}
}

// Enabled indica si hay un PIN configurado; sin PIN la app queda abierta
func (s *Sessions) Enabled() bool {
	return s.pin != ""
}

func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// CheckPIN compara en tiempo constante
func (s *Sessions) CheckPIN(candidate string) error {
	if !s.Enabled() {
		return ErrPINNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(s.pin)) != 1 {
		return ErrInvalidPIN
	}
	return nil
}

// Issue firma un token HS256 para el personal
func (s *Sessions) Issue() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Verify valida firma, expiración y sujeto del token
func (s *Sessions) Verify(raw string) error {
	if raw == "" {
		return ErrInvalidSession
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidSession
	}
	return nil
}
