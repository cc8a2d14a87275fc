package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"movie-discovery-api/internal/models"
)

// CommentStore persists comments.
type CommentStore interface {
	CommentLister
	Insert(ctx context.Context, c *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id int, userID string) (bool, error)
}

// CommentService handles business logic for comments.
type CommentService struct {
	store CommentStore
	now   func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(store CommentStore) *CommentService {
	return &CommentService{store: store, now: time.Now}
}

// Add stamps the comment with the current UTC time and stores it.
func (s *CommentService) Add(ctx context.Context, movieID int, userID, userName, content string) (*models.Comment, error) {
	if movieID <= 0 {
		return nil, newError(ErrValidation, "invalid movie ID")
	}
	if userID == "" {
		return nil, newError(ErrValidation, "user identity missing from token")
	}
	if strings.TrimSpace(content) == "" {
		return nil, newError(ErrValidation, "content must not be empty")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, newError(ErrValidation, "content must be at most %d characters", models.MaxCommentLength)
	}

	stored, err := s.store.Insert(ctx, &models.Comment{
		MovieID:   movieID,
		UserID:    userID,
		UserName:  userName,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	slog.Info("comment added", "comment_id", stored.ID, "movie_id", movieID, "user_id", userID)
	return stored, nil
}

// Delete removes a comment owned by userID. It returns false when the
// comment does not exist or belongs to someone else.
func (s *CommentService) Delete(ctx context.Context, id int, userID string) (bool, error) {
	deleted, err := s.store.Delete(ctx, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	if deleted {
		slog.Info("comment deleted", "comment_id", id, "user_id", userID)
	}
	return deleted, nil
}

// ListForMovie returns all comments of a movie, newest first.
func (s *CommentService) ListForMovie(ctx context.Context, movieID int) ([]models.Comment, error) {
	comments, err := s.store.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
