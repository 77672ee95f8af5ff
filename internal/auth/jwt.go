package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"salesadmin/internal/models"
)

const defaultAccessTTL = 15 * time.Minute

// AccessClaims is the wire shape of an access token payload.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	UserID int    `json:"uid"`
}

// Issuer signs and verifies access tokens with a symmetric key. Access
// tokens are stateless: validity is signature plus expiry, nothing
// server-side.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewIssuer(key, issuer, audience string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	return &Issuer{key: []byte(key), issuer: issuer, audience: audience, ttl: ttl}
}

// IssuerFromEnv reads JWT_SECRET, JWT_ISSUER, JWT_AUDIENCE and
// JWT_EXPIRES_IN (a Go duration, default 15m).
func IssuerFromEnv() *Issuer {
	ttl := defaultAccessTTL
	if s := os.Getenv("JWT_EXPIRES_IN"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			ttl = d
		}
	}
	return NewIssuer(os.Getenv("JWT_SECRET"), os.Getenv("JWT_ISSUER"), os.Getenv("JWT_AUDIENCE"), ttl)
}

// Issue builds an HS256 token for u carrying sub, email, uid and a jti.
func (i *Issuer) Issue(u models.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email:  u.Email,
		UserID: u.ID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
}

// Verify parses and validates a raw token. Any failure, expiry included,
// comes back as a single opaque error.
func (i *Issuer) Verify(raw string) (Claims, error) {
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return Claims{Username: claims.Subject, Email: claims.Email, UserID: claims.UserID}, nil
}
