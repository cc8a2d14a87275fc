// Package client is a typed Go client for the movie discovery API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"movie-discovery-api/internal/models"
)

// ErrNotSignedIn is returned by calls that need a token when none is stored.
var ErrNotSignedIn = errors.New("not signed in")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("API request failed (%d): %s", e.StatusCode, e.Message)
}

// Client calls the movie discovery API.
type Client struct {
	baseURL string
	http    *http.Client
	auth    *AuthStore
}

// New creates a client for the API rooted at baseURL, for example
// http://localhost:8080/api/v1. auth may be nil for anonymous use.
func New(baseURL string, auth *AuthStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		auth:    auth,
	}
}

// Latest returns the movies now playing.
func (c *Client) Latest(ctx context.Context) ([]models.Movie, error) {
	var out []models.Movie
	err := c.do(ctx, http.MethodGet, "/movies/latest", nil, &out)
	return out, err
}

// TopRated returns the top rated movies.
func (c *Client) TopRated(ctx context.Context) ([]models.Movie, error) {
	var out []models.Movie
	err := c.do(ctx, http.MethodGet, "/movies/top-rated", nil, &out)
	return out, err
}

// Movie returns the detail view of one movie.
func (c *Client) Movie(ctx context.Context, id int) (*models.MovieDetails, error) {
	var out models.MovieDetails
	if err := c.do(ctx, http.MethodGet, "/movies/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search searches by title and/or genre. A zero genreID means no genre
// filter.
func (c *Client) Search(ctx context.Context, query string, genreID, page int) (*models.SearchResult, error) {
	q := url.Values{"page": {strconv.Itoa(max(page, 1))}}
	if query != "" {
		q.Set("query", query)
	}
	if genreID != 0 {
		q.Set("genreId", strconv.Itoa(genreID))
	}

	var out models.SearchResult
	if err := c.do(ctx, http.MethodGet, "/movies/search?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Genres returns all genres.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var out []models.Genre
	err := c.do(ctx, http.MethodGet, "/movies/genres", nil, &out)
	return out, err
}

// Comments returns the comments of a movie, newest first.
func (c *Client) Comments(ctx context.Context, movieID int) ([]models.Comment, error) {
	var out []models.Comment
	err := c.do(ctx, http.MethodGet, "/comments/movie/"+strconv.Itoa(movieID), nil, &out)
	return out, err
}

// AddComment posts a comment as the signed-in user.
func (c *Client) AddComment(ctx context.Context, movieID int, content string) (*models.Comment, error) {
	if c.token() == "" {
		return nil, ErrNotSignedIn
	}
	var out models.Comment
	body := models.CreateCommentRequest{MovieID: movieID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/comments", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComment removes one of the signed-in user's comments.
func (c *Client) DeleteComment(ctx context.Context, id int) error {
	if c.token() == "" {
		return ErrNotSignedIn
	}
	return c.do(ctx, http.MethodDelete, "/comments/"+strconv.Itoa(id), nil, nil)
}

// Login signs in and, when the client has an AuthStore, saves the session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var out Session
	body := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	if c.auth != nil {
		if err := c.auth.Save(out); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// Register creates an account and returns the server's message.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	var out models.MessageResponse
	body := models.RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Logout forgets the stored session.
func (c *Client) Logout() error {
	if c.auth == nil {
		return nil
	}
	return c.auth.Clear()
}

// Me returns the account behind the stored token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	if c.token() == "" {
		return nil, ErrNotSignedIn
	}
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) token() string {
	if c.auth == nil {
		return ""
	}
	return c.auth.Token()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}
