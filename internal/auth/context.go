package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/anandkanishkZ/pds/internal/model"
)

// ContextKey is where the JWT middleware stores the verified token on the
// request context.
const ContextKey = "user"

// Identity is the authenticated caller exposed to handlers after the JWT
// middleware has verified the bearer token.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

// IdentityFromContext extracts the verified caller identity placed on the
// echo context by the JWT middleware.
func IdentityFromContext(c echo.Context) (*Identity, error) {
	token, ok := c.Get(ContextKey).(*jwt.Token)
	if !ok {
		return nil, errors.New("no token in request context")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: userID, Role: claims.Role}, nil
}
