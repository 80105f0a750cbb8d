package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/anandkanishkZ/pds/internal/auth"
	"github.com/anandkanishkZ/pds/internal/config"
	apperrors "github.com/anandkanishkZ/pds/internal/errors"
	"github.com/anandkanishkZ/pds/internal/handler"
	"github.com/anandkanishkZ/pds/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Protected routes: every request must carry a valid bearer token. The
	// token is not re-checked against account status, so a token minted
	// before a block stays valid until its own expiry.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// the precise cause (missing, malformed, expired) stays in the
			// server log; clients get one generic unauthenticated response
			c.Logger().Warnf("token rejected: %v", err)
			return c.JSON(http.StatusUnauthorized, apperrors.MessageResponse{Message: "Authentication required"})
		},
	}))

	users := secured.Group("/users", requireAdmin)
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.GET("/:id", userHandler.GetUser)
	users.PATCH("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.GET("/:id/block-audits", userHandler.ListBlockAudits)
}

// requireAdmin rejects verified callers whose role is not admin.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := auth.IdentityFromContext(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, apperrors.MessageResponse{Message: "Authentication required"})
		}
		if identity.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, apperrors.MessageResponse{Message: "Admin access required"})
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
