package testinfra

import (
	"context"
	"sync"

	"movie-discovery-api/internal/tmdb"
)

// CatalogCall records one call made against a Catalog.
type CatalogCall struct {
	Method  string
	ID      int
	Query   string
	GenreID *int
	Page    int
}

// Catalog is a canned upstream catalog. Each response field is returned by
// the matching method; Err, when set, is returned by every method.
type Catalog struct {
	mu sync.Mutex

	NowPlayingResp *tmdb.PagedResponse
	TopRatedResp   *tmdb.PagedResponse
	Details        map[int]*tmdb.MovieDetail
	PagedResp      *tmdb.PagedResponse
	GenreList      []tmdb.Genre
	Err            error

	Calls []CatalogCall
}

func (c *Catalog) record(call CatalogCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, call)
}

func (c *Catalog) paged(resp *tmdb.PagedResponse) (*tmdb.PagedResponse, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if resp == nil {
		return &tmdb.PagedResponse{Page: 1}, nil
	}
	return resp, nil
}

func (c *Catalog) NowPlaying(context.Context) (*tmdb.PagedResponse, error) {
	c.record(CatalogCall{Method: "NowPlaying", Page: 1})
	return c.paged(c.NowPlayingResp)
}

func (c *Catalog) TopRated(context.Context) (*tmdb.PagedResponse, error) {
	c.record(CatalogCall{Method: "TopRated", Page: 1})
	return c.paged(c.TopRatedResp)
}

func (c *Catalog) MovieDetails(_ context.Context, id int) (*tmdb.MovieDetail, error) {
	c.record(CatalogCall{Method: "MovieDetails", ID: id})
	if c.Err != nil {
		return nil, c.Err
	}
	d, ok := c.Details[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return d, nil
}

func (c *Catalog) Discover(_ context.Context, genreID, page int) (*tmdb.PagedResponse, error) {
	c.record(CatalogCall{Method: "Discover", GenreID: &genreID, Page: page})
	return c.paged(c.PagedResp)
}

func (c *Catalog) Search(_ context.Context, query string, genreID *int, page int) (*tmdb.PagedResponse, error) {
	c.record(CatalogCall{Method: "Search", Query: query, GenreID: genreID, Page: page})
	return c.paged(c.PagedResp)
}

func (c *Catalog) Genres(context.Context) ([]tmdb.Genre, error) {
	c.record(CatalogCall{Method: "Genres"})
	if c.Err != nil {
		return nil, c.Err
	}
	return c.GenreList, nil
}

// CallCount returns the number of recorded calls.
func (c *Catalog) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}
