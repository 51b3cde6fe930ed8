package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret = errors.New("jwt secret is not configured")
	errBadClaims     = errors.New("invalid token claims")
)

// Identity is what a session token proves about its bearer.
type Identity struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Claims defines JWT claims used in the application.
type Claims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager signing with secret, tokens valid for ttl.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for id and returns it with its expiry.
func (m *TokenManager) Issue(id Identity) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		UserID:   id.UserID,
		Username: id.Username,
		FullName: id.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify validates a token and returns its identity and expiry.
// An empty token yields MISSING_TOKEN, anything else that fails yields INVALID_TOKEN.
func (m *TokenManager) Verify(tokenStr string) (Identity, time.Time, error) {
	if tokenStr == "" {
		return Identity{}, time.Time{}, NewAppError(ErrMissingToken, "Access denied. No token provided.", nil)
	}
	if len(m.secret) == 0 {
		return Identity{}, time.Time{}, NewAppError(ErrInvalidToken, "Invalid or expired token.", ErrMissingSecret)
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, time.Time{}, NewAppError(ErrInvalidToken, "Invalid or expired token.", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 {
		return Identity{}, time.Time{}, NewAppError(ErrInvalidToken, "Invalid or expired token.", errBadClaims)
	}

	return Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		FullName: claims.FullName,
	}, claims.ExpiresAt.Time, nil
}
