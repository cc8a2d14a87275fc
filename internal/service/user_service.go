package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"movie-discovery-api/internal/auth"
	"movie-discovery-api/internal/models"
	"movie-discovery-api/internal/repository"
)

// timingHash is compared against when the username is unknown so that both
// login failures cost one bcrypt comparison.
var timingHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("movie-discovery-timing-equalizer")
	return h
})

// UserStore persists user credentials.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, username string) (string, error)
}

// UserService handles registration and login.
type UserService struct {
	users  UserStore
	tokens TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register creates a user after checking that neither the username nor the
// email is taken.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, newError(ErrConflict, "username is already taken")
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, newError(ErrConflict, "email is already registered")
	}

	hash, err := auth.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, newError(ErrValidation, "password must be at most 72 bytes")
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, username, email, hash)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent registration
		return nil, newError(ErrConflict, "username or email is already registered")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks the credentials and issues a token. Unknown users and
// wrong passwords fail identically.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		auth.CheckPassword(timingHash(), password)
		return nil, newError(ErrInvalidCredentials, "username or password is incorrect")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, newError(ErrInvalidCredentials, "username or password is incorrect")
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.AuthResponse{ID: user.ID, Username: user.Username, Token: token}, nil
}

// GetByID returns a user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}
	return user, nil
}
