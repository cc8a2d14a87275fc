package handler

import (
	"errors"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
)

const serviceName = "movie-discovery-api"

// NewApp creates the Fiber app with the JSON codec and the error handler
// shared by every route.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "Movie Discovery API",
		ServerHeader: "Movie-Discovery-API",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("unhandled error", "error", err, "status", code)
			}
			return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
		},
	})
}

// Routes bundles the handlers and guards mounted under /api/v1.
type Routes struct {
	Movies   *MovieHandler
	Comments *CommentHandler
	Auth     *AuthHandler

	// RequireAuth guards routes that need a bearer token.
	RequireAuth fiber.Handler
	// AuthLimit throttles the credential endpoints. Optional.
	AuthLimit fiber.Handler
}

// Register mounts all API routes on router.
func (r Routes) Register(router fiber.Router) {
	api := router.Group("/api/v1")
	api.Get("/health", r.Movies.Health)

	authGroup := api.Group("/auth")
	if r.AuthLimit != nil {
		authGroup.Use([]string{"/login", "/register"}, r.AuthLimit)
	}
	authGroup.Post("/login", r.Auth.Login)
	authGroup.Post("/register", r.Auth.Register)
	authGroup.Get("/me", r.RequireAuth, r.Auth.Me)

	movies := api.Group("/movies")
	movies.Get("/latest", r.Movies.Latest)
	movies.Get("/top-rated", r.Movies.TopRated)
	movies.Get("/search", r.Movies.Search)
	movies.Get("/genres", r.Movies.Genres)
	movies.Get("/:id", r.Movies.Details)

	comments := api.Group("/comments")
	comments.Get("/movie/:movieId", r.Comments.ListByMovie)
	comments.Post("/", r.RequireAuth, r.Comments.Create)
	comments.Delete("/:id", r.RequireAuth, r.Comments.Delete)
}
