package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-discovery-api/internal/models"
	"movie-discovery-api/internal/tmdb"
)

// Catalog is the upstream movie catalog.
type Catalog interface {
	NowPlaying(ctx context.Context) (*tmdb.PagedResponse, error)
	TopRated(ctx context.Context) (*tmdb.PagedResponse, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetail, error)
	Discover(ctx context.Context, genreID, page int) (*tmdb.PagedResponse, error)
	Search(ctx context.Context, query string, genreID *int, page int) (*tmdb.PagedResponse, error)
	Genres(ctx context.Context) ([]tmdb.Genre, error)
}

// CommentLister lists the stored comments of a movie, newest first.
type CommentLister interface {
	ListByMovie(ctx context.Context, movieID int) ([]models.Comment, error)
}

// MovieService proxies the upstream catalog and reshapes its responses.
type MovieService struct {
	catalog   Catalog
	comments  CommentLister
	imageBase string
}

// NewMovieService creates a new MovieService. An empty imageBase falls back
// to the TMDB image CDN.
func NewMovieService(catalog Catalog, comments CommentLister, imageBase string) *MovieService {
	if imageBase == "" {
		imageBase = tmdb.DefaultImageBaseURL
	}
	return &MovieService{
		catalog:   catalog,
		comments:  comments,
		imageBase: imageBase,
	}
}

// Latest returns the first page of movies now playing.
func (s *MovieService) Latest(ctx context.Context) ([]models.Movie, error) {
	resp, err := s.catalog.NowPlaying(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest movies: %w", err)
	}
	return s.toMovies(resp.Results), nil
}

// TopRated returns the first page of top rated movies.
func (s *MovieService) TopRated(ctx context.Context) ([]models.Movie, error) {
	resp, err := s.catalog.TopRated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top rated movies: %w", err)
	}
	return s.toMovies(resp.Results), nil
}

// Details assembles a movie with its first cast members, a handful of
// stills and all stored comments.
func (s *MovieService) Details(ctx context.Context, id int) (*models.MovieDetails, error) {
	detail, err := s.catalog.MovieDetails(ctx, id)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, newError(ErrNotFound, "movie not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}
	if detail == nil || detail.ID == 0 {
		return nil, newError(ErrNotFound, "movie not found")
	}

	comments, err := s.comments.ListByMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for movie %d: %w", id, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return &models.MovieDetails{
		Movie:    s.toMovie(detail.Movie),
		Cast:     s.toCast(detail.Credits),
		Images:   s.toImages(detail.Images),
		Comments: comments,
	}, nil
}

// Search picks discover, search-with-genre or plain search depending on
// which of query and genreID are set. At least one is required.
func (s *MovieService) Search(ctx context.Context, query string, genreID *int, page int) (*models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" && genreID == nil {
		return nil, newError(ErrValidation, "either query or genreId must be provided")
	}
	if page < 1 {
		page = 1
	}

	var (
		resp *tmdb.PagedResponse
		err  error
	)
	if query == "" {
		resp, err = s.catalog.Discover(ctx, *genreID, page)
	} else {
		resp, err = s.catalog.Search(ctx, query, genreID, page)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	return &models.SearchResult{
		Results:      s.toMovies(resp.Results),
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}, nil
}

// Genres returns all movie genres.
func (s *MovieService) Genres(ctx context.Context) ([]models.Genre, error) {
	genres, err := s.catalog.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}
	return toGenres(genres), nil
}

func (s *MovieService) toMovies(in []tmdb.Movie) []models.Movie {
	out := make([]models.Movie, 0, len(in))
	for _, m := range in {
		out = append(out, s.toMovie(m))
	}
	return out
}

func (s *MovieService) toMovie(m tmdb.Movie) models.Movie {
	movie := models.Movie{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   tmdb.ImageURL(s.imageBase, tmdb.PosterSize, m.PosterPath),
		BackdropPath: tmdb.ImageURL(s.imageBase, tmdb.BackdropSize, m.BackdropPath),
		VoteAverage:  m.VoteAverage,
		VoteCount:    m.VoteCount,
		ReleaseDate:  parseReleaseDate(m.ReleaseDate),
	}
	if m.Genres != nil {
		movie.Genres = toGenres(m.Genres)
	}
	return movie
}

func (s *MovieService) toCast(credits *tmdb.Credits) []models.CastMember {
	cast := make([]models.CastMember, 0, models.MaxCastMembers)
	if credits == nil {
		return cast
	}
	for _, c := range credits.Cast {
		if len(cast) == models.MaxCastMembers {
			break
		}
		cast = append(cast, models.CastMember{
			ID:          c.ID,
			Name:        c.Name,
			Character:   c.Character,
			ProfilePath: tmdb.ImageURL(s.imageBase, tmdb.ProfileSize, c.ProfilePath),
		})
	}
	return cast
}

func (s *MovieService) toImages(images *tmdb.Images) []models.Image {
	out := make([]models.Image, 0, models.MaxBackdrops+models.MaxPosters)
	if images == nil {
		return out
	}
	out = s.appendImages(out, images.Backdrops, tmdb.BackdropSize, models.ImageTypeBackdrop, models.MaxBackdrops)
	out = s.appendImages(out, images.Posters, tmdb.PosterSize, models.ImageTypePoster, models.MaxPosters)
	return out
}

func (s *MovieService) appendImages(out []models.Image, files []tmdb.ImageFile, size, kind string, limit int) []models.Image {
	n := 0
	for _, f := range files {
		if n == limit {
			break
		}
		u := tmdb.ImageURL(s.imageBase, size, f.FilePath)
		if u == nil {
			continue
		}
		out = append(out, models.Image{FilePath: *u, Width: f.Width, Height: f.Height, Type: kind})
		n++
	}
	return out
}

func toGenres(in []tmdb.Genre) []models.Genre {
	out := make([]models.Genre, 0, len(in))
	for _, g := range in {
		out = append(out, models.Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

// parseReleaseDate returns the zero time for missing or malformed dates.
func parseReleaseDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
