package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-api/internal/config"
)

var testJWT = config.JWTConfig{
	Key:      "0123456789abcdef0123456789abcdef",
	Issuer:   "movie-discovery",
	Audience: "movie-discovery-web",
}

func newIssuer(t *testing.T, cfg config.JWTConfig) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(cfg)
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer_RequiresSettings(t *testing.T) {
	tests := []struct {
		name string
		edit func(*config.JWTConfig)
	}{
		{"missing key", func(c *config.JWTConfig) { c.Key = "" }},
		{"missing issuer", func(c *config.JWTConfig) { c.Issuer = "" }},
		{"missing audience", func(c *config.JWTConfig) { c.Audience = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testJWT
			tt.edit(&cfg)
			_, err := NewTokenIssuer(cfg)
			assert.ErrorIs(t, err, ErrTokenConfig)
		})
	}
}

func TestIssue_EmbedsClaims(t *testing.T) {
	issuer := newIssuer(t, testJWT)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue("user-1", "alice")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "movie-discovery", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"movie-discovery-web"}, claims.Audience)
	assert.True(t, claims.ExpiresAt.Time.Equal(now.Add(time.Hour)))
}

func TestVerify_RejectsExpired(t *testing.T) {
	issuer := newIssuer(t, testJWT)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue("user-1", "alice")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_RejectsWrongIssuerAndAudience(t *testing.T) {
	token, err := newIssuer(t, testJWT).Issue("user-1", "alice")
	require.NoError(t, err)

	otherIssuer := testJWT
	otherIssuer.Issuer = "someone-else"
	_, err = newIssuer(t, otherIssuer).Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	otherAudience := testJWT
	otherAudience.Audience = "mobile"
	_, err = newIssuer(t, otherAudience).Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
}

func TestVerify_RejectsBadSignature(t *testing.T) {
	token, err := newIssuer(t, testJWT).Issue("user-1", "alice")
	require.NoError(t, err)

	otherKey := testJWT
	otherKey.Key = "ffffffffffffffffffffffffffffffff"
	_, err = newIssuer(t, otherKey).Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		Name: "mallory",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    testJWT.Issuer,
			Audience:  jwt.ClaimStrings{testJWT.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newIssuer(t, testJWT).Verify(unsigned)
	assert.Error(t, err)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	_, err := newIssuer(t, testJWT).Verify("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "hunter22"))
}
