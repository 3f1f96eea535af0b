package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/quillpress/blog-platform/internal/api/handler"
	"github.com/quillpress/blog-platform/internal/api/middleware"
	"github.com/quillpress/blog-platform/internal/core/policy"
	"github.com/quillpress/blog-platform/internal/core/ports"

	_ "github.com/quillpress/blog-platform/docs"
)

// Dependencies carries everything the HTTP layer needs. The router builds no
// services of its own.
type Dependencies struct {
	Auth       ports.AuthService
	Sessions   ports.SessionAuthenticator
	Identities ports.IdentityResolver
	Posts      ports.PostService
	Comments   ports.CommentService
	Admin      ports.AdminService

	// Policy defaults to policy.Default() when nil.
	Policy *policy.Policy
	// Readiness maps dependency names to the checks behind /health/ready.
	Readiness map[string]handler.Pinger
	// StaticDir holds the css and js assets. Empty disables static serving.
	StaticDir string
	// Metrics enables the Prometheus middleware and /admin/metrics.
	Metrics bool

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	access := deps.Policy
	if access == nil {
		access = policy.Default()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("blog"))
	}
	e.Use(middleware.Authenticate(deps.Sessions, deps.Identities, deps.Log))
	e.Use(middleware.Authorize(access, deps.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	postHandler := handler.NewPostHandler(deps.Posts)
	commentHandler := handler.NewCommentHandler(deps.Comments)
	adminHandler := handler.NewAdminHandler(deps.Admin)

	// --- Session routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/me", authHandler.Me)

	// --- Content routes ---
	e.GET("/", postHandler.List)
	e.GET("/posts", postHandler.List)
	e.POST("/posts", postHandler.Create)
	e.GET("/posts/:id", postHandler.Get)
	e.GET("/posts/:id/comments", commentHandler.List)
	e.POST("/posts/:id/comments", commentHandler.Create)
	e.GET("/users/:id/posts", postHandler.ListByAuthor)

	// --- Administration ---
	admin := e.Group("/admin")
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.Users)
	admin.GET("/activity", adminHandler.Activity)
	admin.DELETE("/comments/:id", commentHandler.Remove)
	if deps.Metrics {
		admin.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Documentation and assets ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if deps.StaticDir != "" {
		e.Static("/css", deps.StaticDir+"/css")
		e.Static("/js", deps.StaticDir+"/js")
	}

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness, deps.Log)

	e.GET("/health", healthHandler.Liveness)           // liveness
	e.GET("/health/ready", readinessHandler.Readiness) // readiness

	return e
}
