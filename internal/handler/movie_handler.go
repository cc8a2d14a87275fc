package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-api/internal/service"
)

// MovieHandler handles HTTP requests for movies.
type MovieHandler struct {
	svc *service.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": serviceName,
	})
}

// Latest returns the movies now playing.
// @Summary Latest movies
// @Tags movies
// @Produce json
// @Success 200 {array} models.Movie
// @Failure 500 {object} ErrorResponse
// @Router /movies/latest [get]
func (h *MovieHandler) Latest(c fiber.Ctx) error {
	movies, err := h.svc.Latest(c.Context())
	if err != nil {
		return respondError(c, err, "failed to retrieve latest movies")
	}
	return c.JSON(movies)
}

// TopRated returns the top rated movies.
// @Summary Top rated movies
// @Tags movies
// @Produce json
// @Success 200 {array} models.Movie
// @Failure 500 {object} ErrorResponse
// @Router /movies/top-rated [get]
func (h *MovieHandler) TopRated(c fiber.Ctx) error {
	movies, err := h.svc.TopRated(c.Context())
	if err != nil {
		return respondError(c, err, "failed to retrieve top rated movies")
	}
	return c.JSON(movies)
}

// Details returns a movie with cast, images and comments.
// @Summary Get movie detail
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} models.MovieDetails
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) Details(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return badRequest(c, "invalid movie ID")
	}

	details, err := h.svc.Details(c.Context(), id)
	if err != nil {
		return respondError(c, err, "failed to retrieve movie details")
	}
	return c.JSON(details)
}

// Search searches by title, by genre, or both.
// @Summary Search movies
// @Tags movies
// @Produce json
// @Param query query string false "Title search"
// @Param genreId query int false "Genre filter"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.SearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/search [get]
func (h *MovieHandler) Search(c fiber.Ctx) error {
	var genreID *int
	if raw := c.Query("genreId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid genreId")
		}
		genreID = &id
	}
	page := fiber.Query(c, "page", 1)

	result, err := h.svc.Search(c.Context(), c.Query("query"), genreID, page)
	if err != nil {
		return respondError(c, err, "failed to search movies")
	}
	return c.JSON(result)
}

// Genres returns all movie genres.
// @Summary List genres
// @Tags movies
// @Produce json
// @Success 200 {array} models.Genre
// @Failure 500 {object} ErrorResponse
// @Router /movies/genres [get]
func (h *MovieHandler) Genres(c fiber.Ctx) error {
	genres, err := h.svc.Genres(c.Context())
	if err != nil {
		return respondError(c, err, "failed to retrieve genres")
	}
	return c.JSON(genres)
}
