package main

import (
	"log"
	"net/http"

	_ "github.com/anandkanishkZ/pds/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/anandkanishkZ/pds/internal/auth"
	"github.com/anandkanishkZ/pds/internal/cache"
	"github.com/anandkanishkZ/pds/internal/config"
	"github.com/anandkanishkZ/pds/internal/db"
	"github.com/anandkanishkZ/pds/internal/handler"
	"github.com/anandkanishkZ/pds/internal/repository"
	"github.com/anandkanishkZ/pds/internal/router"
	"github.com/anandkanishkZ/pds/internal/service"
)

// @title PDS Admin API
// @version 1.0
// @description Account access-control backend: credential auth, account status lifecycle and block audit trail.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	auditRepo := repository.NewBlockAuditRepository(gormDB)

	// Auth components: work factor, signing secret and TTL come from config,
	// injected once at construction
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	// Services
	authService := service.NewAuthService(userRepo, hasher, jwtService, cfg.BootstrapAdmin)
	userService := service.NewUserService(userRepo, auditRepo, hasher, cacheClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	router.Register(e, cfg, authHandler, userHandler)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
