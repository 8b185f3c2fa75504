package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer := NewJWTIssuer([]byte("secret"))
	claims := SessionClaims{UserID: NewID(), Email: "a@b.com", Role: RoleUser}

	token, err := issuer.Sign(claims, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := issuer.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, claims, parsed)
}

func TestParseRejectsBadTokens(t *testing.T) {
	issuer := NewJWTIssuer([]byte("secret"))
	token, _ := issuer.Sign(SessionClaims{UserID: NewID(), Email: "a@b.com", Role: RoleUser}, time.Hour)

	tests := []struct {
		name, token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"tampered", token + "x"},
	}

	for _, tt := range tests {
		_, err := issuer.Parse(tt.token)
		assert.Equal(t, ErrInvalidToken, err, tt.name)
	}
}

func TestParseRejectsTokenSignedWithOtherKey(t *testing.T) {
	other := NewJWTIssuer([]byte("other"))
	token, _ := other.Sign(SessionClaims{UserID: NewID(), Email: "a@b.com", Role: RoleUser}, time.Hour)

	_, err := NewJWTIssuer([]byte("secret")).Parse(token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewJWTIssuer([]byte("secret"))
	token, _ := issuer.Sign(SessionClaims{UserID: NewID(), Email: "a@b.com", Role: RoleUser}, -time.Minute)

	_, err := issuer.Parse(token)
	assert.Equal(t, ErrInvalidToken, err)
}
