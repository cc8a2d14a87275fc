package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-api/internal/middleware"
	"movie-discovery-api/internal/models"
	"movie-discovery-api/internal/service"
	"movie-discovery-api/internal/validation"
)

// unknownUserName is shown for comments whose token carried no name.
const unknownUserName = "Unknown User"

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	svc *service.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// ListByMovie returns the comments of a movie, newest first.
// @Summary List comments of a movie
// @Tags comments
// @Produce json
// @Param movieId path int true "Movie ID"
// @Success 200 {array} models.Comment
// @Failure 400 {object} ErrorResponse
// @Router /comments/movie/{movieId} [get]
func (h *CommentHandler) ListByMovie(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("movieId"))
	if err != nil || movieID <= 0 {
		return badRequest(c, "invalid movie ID")
	}

	comments, err := h.svc.ListForMovie(c.Context(), movieID)
	if err != nil {
		return respondError(c, err, "failed to retrieve comments")
	}
	return c.JSON(comments)
}

// Create posts a comment as the authenticated user.
// @Summary Post a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /comments [post]
func (h *CommentHandler) Create(c fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil || claims.UserID() == "" {
		return badRequest(c, "user identity missing from token")
	}

	var req models.CreateCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return respondError(c, err, "invalid request body")
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = unknownUserName
	}

	comment, err := h.svc.Add(c.Context(), req.MovieID, claims.UserID(), name, req.Content)
	if err != nil {
		return respondError(c, err, "failed to add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// Delete removes one of the caller's comments.
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil || claims.UserID() == "" {
		return badRequest(c, "user identity missing from token")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return badRequest(c, "invalid comment ID")
	}

	deleted, err := h.svc.Delete(c.Context(), id, claims.UserID())
	if err != nil {
		return respondError(c, err, "failed to delete comment")
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "comment not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
