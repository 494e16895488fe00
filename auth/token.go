package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codemart-app/backend/models"
)

// Claims are the token claims every protected endpoint authorizes against.
// Authorization decisions read these, never the database.
type Claims struct {
	Email     string `json:"email"`
	GivenName string `json:"given_name"`
	Admin     bool   `json:"admin"`
	jwt.RegisteredClaims
}

// UserID is the parsed subject claim.
func (c Claims) UserID() uint {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// CanActFor reports whether the caller may mutate resources owned by userID:
// admins may act for anyone, everyone else only for themselves.
func (c Claims) CanActFor(userID uint) bool {
	return c.Admin || c.UserID() == userID
}

// TokenService issues and validates HS256 bearer tokens.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenService(key, issuer, audience string, ttl time.Duration) TokenService {
	return TokenService{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// IssueToken signs a token for the user embedding subject id, email, given
// name and the admin flag.
func (s TokenService) IssueToken(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:     user.Email,
		GivenName: user.FirstName,
		Admin:     user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature, issuer, audience and expiry with zero
// clock skew and returns the embedded claims.
func (s TokenService) ParseToken(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.key, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return claims, nil
}
