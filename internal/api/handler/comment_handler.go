package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

// CommentHandler serves the comment endpoints.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// createCommentRequest requires the body key to be present. An empty string
// is a valid comment; the text is stored as sent.
type createCommentRequest struct {
	Body *string `json:"body" validate:"required"`
}

type commentListResponse struct {
	Comments []*domain.Comment `json:"comments"`
}

// Create handles POST /posts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Post ID"
// @Param        body  body      createCommentRequest  true  "Comment text"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	comment, err := h.service.Submit(c.Request().Context(), principal(c), c.Param("id"), *req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// List handles GET /posts/:id/comments.
//
// @Summary      List the comments of a post, oldest first
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  commentListResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.service.ListForPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentListResponse{Comments: comments})
}

// Remove handles DELETE /admin/comments/:id.
//
// @Summary      Remove a comment
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Comment ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/comments/{id} [delete]
func (h *CommentHandler) Remove(c echo.Context) error {
	if err := h.service.Remove(c.Request().Context(), principal(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
