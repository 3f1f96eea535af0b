package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

// AdminHandler serves the administration views.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type dashboardResponse struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
}

type activityResponse struct {
	Entries []domain.ActivityEntry `json:"entries"`
}

// Dashboard handles GET /admin/dashboard.
//
// @Summary      Platform totals
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.service.Dashboard(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Users: stats.Users, Posts: stats.Posts, Comments: stats.Comments})
}

// Users handles GET /admin/users.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.service.Users(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users})
}

// Activity handles GET /admin/activity.
//
// @Summary      Latest audit entries
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (default and cap 200)"
// @Success      200    {object}  activityResponse
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /admin/activity [get]
func (h *AdminHandler) Activity(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badRequest(c, "limit must be a non-negative integer")
		}
		limit = n
	}

	entries, err := h.service.Activity(c.Request().Context(), principal(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityResponse{Entries: entries})
}
