package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// SessionClaims is the identity payload embedded in a signed session token.
type SessionClaims struct {
	UserID ID     `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenIssuer signs session claims into a bearer token and validates
// presented tokens.
type TokenIssuer interface {
	Sign(claims SessionClaims, ttl time.Duration) (string, error)
	Parse(token string) (SessionClaims, error)
}

var ErrInvalidToken = errors.New("invalid token")

type sessionTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

type jwtIssuer struct {
	signingKey []byte
}

func NewJWTIssuer(signingKey []byte) TokenIssuer {
	return &jwtIssuer{signingKey: signingKey}
}

func (j *jwtIssuer) Sign(claims SessionClaims, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionTokenClaims{
		Email: claims.Email,
		Role:  claims.Role,
		StandardClaims: jwt.StandardClaims{
			Issuer:    "auth",
			Subject:   string(claims.UserID),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	})
	return token.SignedString(j.signingKey)
}

func (j *jwtIssuer) Parse(tokenStr string) (SessionClaims, error) {
	claims := &sessionTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.signingKey, nil
	})
	if err != nil || !token.Valid {
		return SessionClaims{}, ErrInvalidToken
	}

	return SessionClaims{UserID: ID(claims.Subject), Email: claims.Email, Role: claims.Role}, nil
}
