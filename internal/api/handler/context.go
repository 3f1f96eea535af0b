package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-platform/internal/api/middleware"
	"github.com/quillpress/blog-platform/internal/core/domain"
)

// principal returns the identity the Authenticate middleware resolved for
// this request. Handlers pass it explicitly to every workflow.
func principal(c echo.Context) domain.Principal {
	return middleware.PrincipalFrom(c)
}

type errorBody struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Error: msg})
}
