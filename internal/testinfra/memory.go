// Package testinfra provides in-memory stores and container helpers for
// tests.
package testinfra

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"movie-discovery-api/internal/models"
	"movie-discovery-api/internal/repository"
)

// UserStore is an in-memory credential store with the same uniqueness rules
// as the users table.
type UserStore struct {
	mu    sync.Mutex
	users []models.User
	Err   error
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) Create(_ context.Context, username, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, fmt.Errorf("create user %q: %w", username, repository.ErrDuplicate)
		}
	}
	u := models.User{ID: uuid.NewString(), Username: username, Email: email, PasswordHash: passwordHash}
	s.users = append(s.users, u)
	return &u, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *UserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := s.FindByUsername(ctx, username)
	return u != nil, err
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := s.FindByEmail(ctx, email)
	return u != nil, err
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *UserStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// CommentStore is an in-memory comment store.
type CommentStore struct {
	mu       sync.Mutex
	nextID   int
	comments []models.Comment
	Err      error
	// ListCalls counts ListByMovie invocations.
	ListCalls int
}

// NewCommentStore creates an empty CommentStore.
func NewCommentStore() *CommentStore {
	return &CommentStore{nextID: 1}
}

func (s *CommentStore) Insert(_ context.Context, c *models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored := *c
	stored.ID = s.nextID
	s.nextID++
	s.comments = append(s.comments, stored)
	return &stored, nil
}

func (s *CommentStore) Delete(_ context.Context, id int, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for i, c := range s.comments {
		if c.ID == id && c.UserID == userID {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *CommentStore) ListByMovie(_ context.Context, movieID int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.MovieID == movieID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
