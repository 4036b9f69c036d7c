package utils // package utils provides helpers for token creation, hashing and QR rendering

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed JWT plus its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// Claims is the decoded content of an access token.
type Claims struct {
	Username string
	Role     string
}

var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  The subject is
// the username; role is ADMIN or CUSTOMER.
func NewAccessToken(secret, username, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and returns the claims.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	role, _ := mc["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{Username: sub, Role: role}, nil
}
