package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
)

// DefaultTokenTTL is how long an issued token stays valid (7 days).
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the payload of an access token. The subject is the identity name.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens with a process-wide secret.
// Verification is pure computation and never touches the store.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for name and the instant it expires.
func (t *TokenIssuer) Issue(name string) (string, time.Time, error) {
	issuedAt := t.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(t.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of tokenString. Any failure is
// reported as Unauthenticated.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("Token has expired")
		}
		return nil, apperr.Unauthenticated("Invalid token")
	}
	if claims.Subject == "" {
		return nil, apperr.Unauthenticated("Invalid token")
	}
	return claims, nil
}
