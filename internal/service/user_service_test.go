package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-api/internal/auth"
	"movie-discovery-api/internal/config"
	"movie-discovery-api/internal/repository"
	"movie-discovery-api/internal/testinfra"
)

func newTestIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(config.JWTConfig{
		Key:      "test-signing-key-0123456789abcdef",
		Issuer:   "movie-discovery",
		Audience: "movie-discovery-web",
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return issuer
}

func TestRegister_ThenLogin(t *testing.T) {
	issuer := newTestIssuer(t)
	svc := NewUserService(testinfra.NewUserStore(), issuer)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	resp, err := svc.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "alice", resp.Username)

	claims, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.Equal(t, "alice", claims.Name)
}

func TestRegister_Conflicts(t *testing.T) {
	store := testinfra.NewUserStore()
	svc := NewUserService(store, newTestIssuer(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "secret1")
	require.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "username is already taken")

	_, err = svc.Register(ctx, "bob", "alice@example.com", "secret1")
	require.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "email is already registered")

	assert.Equal(t, 1, store.Len())
}

// racingStore reports names as free but rejects the insert, as a concurrent
// registration would.
type racingStore struct {
	*testinfra.UserStore
}

func (racingStore) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (racingStore) ExistsByEmail(context.Context, string) (bool, error)    { return false, nil }

func TestRegister_DuplicateOnInsert(t *testing.T) {
	store := testinfra.NewUserStore()
	_, err := store.Create(context.Background(), "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	svc := NewUserService(racingStore{store}, newTestIssuer(t))

	_, err = svc.Register(context.Background(), "alice", "alice@example.com", "secret1")
	require.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, repository.ErrDuplicate)
}

func TestRegister_StoreError(t *testing.T) {
	store := testinfra.NewUserStore()
	store.Err = errors.New("db down")
	svc := NewUserService(store, newTestIssuer(t))

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1")
	require.ErrorIs(t, err, store.Err)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	svc := NewUserService(testinfra.NewUserStore(), newTestIssuer(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "alice", "wrong")
	_, unknownUser := svc.Authenticate(ctx, "mallory", "secret1")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestGetByID(t *testing.T) {
	svc := NewUserService(testinfra.NewUserStore(), newTestIssuer(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	found, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", found.Email)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	store := testinfra.NewUserStore()
	svc := NewUserService(store, newTestIssuer(t))

	// 40 two-byte runes pass a rune-count check but exceed bcrypt's 72 bytes
	_, err := svc.Register(context.Background(), "alice", "alice@example.com", strings.Repeat("é", 40))
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, store.Len())
}
