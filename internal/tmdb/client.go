package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"movie-discovery-api/internal/config"
	"movie-discovery-api/internal/metrics"
)

// ErrNotFound is returned when TMDB answers 404 for a resource.
var ErrNotFound = errors.New("tmdb resource not found")

// Client is the TMDB API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(cfg config.TMDBConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// ---- TMDB Response Types (internal, not exposed to consumers) ----

// PagedResponse is the shape shared by list, search and discover endpoints.
type PagedResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Movie is a movie as TMDB returns it. Genres is only filled on detail calls.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	ReleaseDate  string  `json:"release_date"`
	Genres       []Genre `json:"genres"`
}

// MovieDetail is a movie with credits and images appended.
type MovieDetail struct {
	Movie
	Credits *Credits `json:"credits"`
	Images  *Images  `json:"images"`
}

// Credits holds the cast of a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// CastMember is a credited actor.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

// Images holds backdrop and poster stills.
type Images struct {
	Backdrops []ImageFile `json:"backdrops"`
	Posters   []ImageFile `json:"posters"`
}

// ImageFile is a single still.
type ImageFile struct {
	FilePath string `json:"file_path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Genre is a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the TMDB genre/movie/list response.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// ---- Client Methods ----

// NowPlaying fetches the first page of movies now in theatres.
func (c *Client) NowPlaying(ctx context.Context) (*PagedResponse, error) {
	var result PagedResponse
	q := url.Values{"page": {"1"}}
	if err := c.get(ctx, "now_playing", "/movie/now_playing", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TopRated fetches the first page of top rated movies.
func (c *Client) TopRated(ctx context.Context) (*PagedResponse, error) {
	var result PagedResponse
	q := url.Values{"page": {"1"}}
	if err := c.get(ctx, "top_rated", "/movie/top_rated", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails fetches one movie with its credits and images.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetail, error) {
	var result MovieDetail
	q := url.Values{"append_to_response": {"credits,images"}}
	if err := c.get(ctx, "movie_details", "/movie/"+strconv.Itoa(id), q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Discover lists movies of a genre.
func (c *Client) Discover(ctx context.Context, genreID, page int) (*PagedResponse, error) {
	var result PagedResponse
	q := url.Values{
		"with_genres": {strconv.Itoa(genreID)},
		"page":        {strconv.Itoa(page)},
	}
	if err := c.get(ctx, "discover", "/discover/movie", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search runs a text search, optionally narrowed to a genre.
func (c *Client) Search(ctx context.Context, query string, genreID *int, page int) (*PagedResponse, error) {
	var result PagedResponse
	q := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	}
	if genreID != nil {
		q.Set("with_genres", strconv.Itoa(*genreID))
	}
	if err := c.get(ctx, "search", "/search/movie", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres fetches all movie genres.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var result GenreListResponse
	if err := c.get(ctx, "genres", "/genre/movie/list", url.Values{}, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

func (c *Client) get(ctx context.Context, operation, path string, q url.Values, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstreamCall(operation, time.Since(start), err) }()

	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")

	slog.Debug("fetching TMDB", "operation", operation, "path", path)
	resp, err := c.doGet(ctx, c.baseURL+path+"?"+q.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}
