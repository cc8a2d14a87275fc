//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-api/internal/models"
	"movie-discovery-api/internal/repository"
	"movie-discovery-api/internal/testinfra"
)

func TestUserRepository(t *testing.T) {
	db := testinfra.NewPostgres(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.Create(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, "alice", "other@example.com", "hash")
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, "bob", "alice@example.com", "hash")
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("lookups", func(t *testing.T) {
		byName, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, user.ID, byName.ID)
		assert.Equal(t, "hash", byName.PasswordHash)

		byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, user.ID, byEmail.ID)

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "alice", byID.Username)
	})

	t.Run("missing", func(t *testing.T) {
		u, err := repo.FindByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, u)

		u, err = repo.FindByID(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := repo.ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCommentRepository(t *testing.T) {
	db := testinfra.NewPostgres(t)
	repo := repository.NewCommentRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	older, err := repo.Insert(ctx, &models.Comment{MovieID: 550, UserID: "u1", UserName: "alice", Content: "first", CreatedAt: base})
	require.NoError(t, err)
	sameTime, err := repo.Insert(ctx, &models.Comment{MovieID: 550, UserID: "u2", UserName: "bob", Content: "tie", CreatedAt: base})
	require.NoError(t, err)
	newer, err := repo.Insert(ctx, &models.Comment{MovieID: 550, UserID: "u1", UserName: "alice", Content: "latest", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, &models.Comment{MovieID: 13, UserID: "u1", UserName: "alice", Content: "other movie", CreatedAt: base})
	require.NoError(t, err)

	comments, err := repo.ListByMovie(ctx, 550)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []int{newer.ID, sameTime.ID, older.ID}, []int{comments[0].ID, comments[1].ID, comments[2].ID})
	assert.True(t, comments[0].CreatedAt.Equal(base.Add(time.Hour)))
	assert.Equal(t, time.UTC, comments[0].CreatedAt.Location())

	t.Run("delete requires owner", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, older.ID, "u2")
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = repo.Delete(ctx, older.ID, "u1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, older.ID, "u1")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("blank content rejected", func(t *testing.T) {
		_, err := repo.Insert(ctx, &models.Comment{MovieID: 550, UserID: "u1", UserName: "alice", Content: "   ", CreatedAt: base})
		assert.Error(t, err)
	})

	t.Run("empty movie", func(t *testing.T) {
		comments, err := repo.ListByMovie(ctx, 999)
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})
}
