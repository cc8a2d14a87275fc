package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-api/internal/service"
	"movie-discovery-api/internal/validation"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// respondError writes err as an ErrorResponse. Service errors keep their
// message; anything else is logged and reported as fallback with a 500.
func respondError(c fiber.Ctx, err error, fallback string) error {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return c.Status(statusFor(svcErr.Kind)).JSON(ErrorResponse{Error: svcErr.Message})
	}

	slog.Error(fallback, "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: fallback})
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(kind, service.ErrInvalidCredentials), errors.Is(kind, service.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(kind, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(kind, service.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}
