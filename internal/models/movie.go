package models

import "time"

// Movie is a catalog movie reshaped from the upstream response. Image paths
// are absolute URLs, or nil when upstream had none.
type Movie struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	PosterPath   *string   `json:"poster_path"`
	BackdropPath *string   `json:"backdrop_path"`
	VoteAverage  float64   `json:"vote_average"`
	VoteCount    int       `json:"vote_count"`
	ReleaseDate  time.Time `json:"release_date"`
	Genres       []Genre   `json:"genres,omitempty"`
}

// Genre represents a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is one credited actor of a movie.
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// Image types.
const (
	ImageTypeBackdrop = "backdrop"
	ImageTypePoster   = "poster"
)

// Image is a backdrop or poster still of a movie.
type Image struct {
	FilePath string `json:"file_path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Type     string `json:"type"`
}

// MovieDetails is the response shape for a single movie page.
type MovieDetails struct {
	Movie    Movie        `json:"movie"`
	Cast     []CastMember `json:"cast"`
	Images   []Image      `json:"images"`
	Comments []Comment    `json:"comments"`
}

// SearchResult is one page of search or discovery results.
type SearchResult struct {
	Results      []Movie `json:"results"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Detail view limits.
const (
	MaxCastMembers = 10
	MaxBackdrops   = 5
	MaxPosters     = 5
)
