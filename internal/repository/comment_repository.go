package repository

import (
	"context"
	"database/sql"
	"fmt"

	"movie-discovery-api/internal/models"
)

// CommentRepository handles database operations for comments.
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Insert stores a comment and returns it with its assigned id.
func (r *CommentRepository) Insert(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	stored := *c
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comments (movie_id, user_id, user_name, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.MovieID, c.UserID, c.UserName, c.Content, c.CreatedAt).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	return &stored, nil
}

// Delete removes the comment only if it belongs to userID. It reports
// whether a row was removed.
func (r *CommentRepository) Delete(ctx context.Context, id int, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// ListByMovie returns all comments for a movie, newest first.
func (r *CommentRepository) ListByMovie(ctx context.Context, movieID int) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, movie_id, user_id, user_name, content, created_at
		FROM comments
		WHERE movie_id = $1
		ORDER BY created_at DESC, id DESC
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.MovieID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}
