package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(secret string, ttl time.Duration) *Service {
	return New(nil, nil, Config{
		JWTSecret:      secret,
		AccessTokenTTL: ttl,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService("test-secret", time.Hour)

	token, err := svc.issueToken("dana@example.com", RoleCustomer, "Dana Peretz")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, "dana@example.com", claims.Subject)
	assert.Equal(t, RoleCustomer, claims.Role)
	assert.Equal(t, "Dana Peretz", claims.Name)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestService("secret-a", time.Hour)
	verifier := newTestService("secret-b", time.Hour)

	token, err := issuer.issueToken("MGR001", RoleManager, "Avi Dayan")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := newTestService("test-secret", -time.Minute)

	token, err := svc.issueToken("dana@example.com", RoleCustomer, "Dana Peretz")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := newTestService("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.ParseToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
