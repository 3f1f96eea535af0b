package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

// PostHandler serves the post listing, detail and authoring endpoints.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type createPostRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"`
}

type postListResponse struct {
	Posts []*domain.Post `json:"posts"`
}

type postDetailResponse struct {
	Post     *domain.Post      `json:"post"`
	Comments []*domain.Comment `json:"comments"`
}

// List handles GET / and GET /posts.
//
// @Summary      List posts, newest first
// @Tags         posts
// @Produce      json
// @Success      200  {object}  postListResponse
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postListResponse{Posts: posts})
}

// Get handles GET /posts/:id.
//
// @Summary      Get a post with its comments
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  postDetailResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	detail, err := h.service.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postDetailResponse{Post: detail.Post, Comments: detail.Comments})
}

// Create handles POST /posts. The author is the acting principal.
//
// @Summary      Publish a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	post, err := h.service.Create(c.Request().Context(), principal(c), ports.CreatePostInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// ListByAuthor handles GET /users/:id/posts.
//
// @Summary      List the posts of one author
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  postListResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/posts [get]
func (h *PostHandler) ListByAuthor(c echo.Context) error {
	posts, err := h.service.ListByAuthor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postListResponse{Posts: posts})
}
