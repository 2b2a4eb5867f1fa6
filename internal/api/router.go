package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/medicalunion/medical-union-api/internal/api/handler"
	"github.com/medicalunion/medical-union-api/internal/api/middleware"
	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/service"
	"github.com/medicalunion/medical-union-api/internal/core/token"
	pgdb "github.com/medicalunion/medical-union-api/internal/infrastructure/db/postgres"
	redisinfra "github.com/medicalunion/medical-union-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/medicalunion/medical-union-api/internal/infrastructure/http/handlers"
	"github.com/medicalunion/medical-union-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("medunion"))

	// --- Dependencies ---
	gateway := pgdb.NewGateway(pool, cfg.Postgres.CallTimeout, log)
	store := pgdb.NewUserStore(pool)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	revoker := redisinfra.NewRevocationList(rdb)

	authService := service.NewAuthService(gateway, store, issuer, revoker, log)
	userService := service.NewUserService(gateway, store, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	authMiddleware := middleware.Auth(issuer, revoker)

	// --- Public auth routes (the only unauthenticated API surface) ---
	public := e.Group("/api/v1")
	public.POST("/auth/register", authHandler.Register)
	public.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	protected := e.Group("/api/v1", authMiddleware)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/user/info", authHandler.UserInfo)
	protected.GET("/user/me", userHandler.Me)
	protected.PATCH("/user/me", userHandler.UpdateProfile)
	protected.POST("/user/change-password", userHandler.ChangePassword)
	protected.GET("/admin/users/:id", userHandler.GetUser, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
