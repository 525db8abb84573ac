package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/forumhub/forum-api/internal/api/handler"
	"github.com/forumhub/forum-api/internal/api/middleware"
	"github.com/forumhub/forum-api/internal/core/authz"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// Deps carries the wired services the router exposes over HTTP.
type Deps struct {
	ThemeService     ports.ThemeService
	AuthService      ports.AuthService
	NotificationRepo ports.NotificationRepository
	Gate             *authz.Gate
	Mongo            *mongo.Database
	Redis            *redis.Client
	JWTSecret        string
	Logger           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("forum"))
	e.Use(middleware.Session(deps.JWTSecret))

	// --- Handlers ---
	themeHandler := handler.NewThemeHandler(deps.ThemeService, deps.Gate)
	feedHandler := handler.NewFeedHandler(deps.ThemeService, deps.Gate)
	authHandler := handler.NewAuthHandler(deps.AuthService)
	notifHandler := handler.NewNotificationHandler(deps.NotificationRepo)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Theme / post routes ---
	// Reads are open; mutations sit behind the RequireAuth marker. The
	// authorization gate inside each handler remains the authority.
	requireAuth := middleware.RequireAuth()

	e.GET("/themes", themeHandler.List)
	e.POST("/themes", themeHandler.Create, requireAuth)
	e.GET("/themes/:themeId", themeHandler.Get)
	e.POST("/themes/:themeId", themeHandler.CreatePost, requireAuth)
	e.PUT("/themes/:themeId", themeHandler.Subscribe, requireAuth)
	e.PUT("/themes/:themeId/posts/:postId", themeHandler.EditPost, requireAuth)
	e.DELETE("/themes/:themeId/posts/:postId", themeHandler.DeletePost, requireAuth)

	e.GET("/posts", feedHandler.ListPosts)

	e.GET("/notifications", notifHandler.List, requireAuth)

	// --- Ops routes ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
