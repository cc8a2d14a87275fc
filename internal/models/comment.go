package models

import "time"

// MaxCommentLength bounds comment content, in characters.
const MaxCommentLength = 1000

// Comment is a user comment on a catalog movie. UserID and UserName are
// copied from the author's token at post time and never change.
type Comment struct {
	ID        int       `json:"id"`
	MovieID   int       `json:"movie_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest is the request body for posting a comment.
type CreateCommentRequest struct {
	MovieID int    `json:"movie_id" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,max=1000"`
}
