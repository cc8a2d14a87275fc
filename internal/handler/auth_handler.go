package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-api/internal/middleware"
	"movie-discovery-api/internal/models"
	"movie-discovery-api/internal/service"
	"movie-discovery-api/internal/validation"
)

// AuthHandler handles registration, login and identity lookups.
type AuthHandler struct {
	svc *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login exchanges credentials for a bearer token.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validation.ValidateStruct(req); err != nil {
		return respondError(c, err, "invalid request body")
	}

	resp, err := h.svc.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err, "failed to log in")
	}
	return c.JSON(resp)
}

// Register creates an account.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Account"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.ValidateStruct(req); err != nil {
		return respondError(c, err, "invalid request body")
	}

	if _, err := h.svc.Register(c.Context(), req.Username, req.Email, req.Password); err != nil {
		return respondError(c, err, "failed to register user")
	}
	return c.JSON(models.MessageResponse{Message: "user registered successfully"})
}

// Me returns the account behind the bearer token.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil || claims.UserID() == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "user identity missing from token"})
	}

	user, err := h.svc.GetByID(c.Context(), claims.UserID())
	if err != nil {
		return respondError(c, err, "failed to retrieve user")
	}
	return c.JSON(user)
}
