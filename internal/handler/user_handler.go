package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/anandkanishkZ/pds/internal/auth"
	apperrors "github.com/anandkanishkZ/pds/internal/errors"
	"github.com/anandkanishkZ/pds/internal/model"
	"github.com/anandkanishkZ/pds/internal/repository"
	"github.com/anandkanishkZ/pds/internal/service"
)

const maxPageSize = 100

// UserHandler handles the administrative user endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// OptionalTime distinguishes an absent JSON field from an explicit null.
// Set is true whenever the field appeared in the body.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// CreateUserRequest is an admin-created user payload.
type CreateUserRequest struct {
	Name         string     `json:"name" validate:"required,min=2"`
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=6"`
	Role         string     `json:"role" validate:"omitempty,oneof=admin user moderator"`
	Status       string     `json:"status" validate:"omitempty,oneof=active inactive pending blocked"`
	AdminNotes   string     `json:"adminNotes" validate:"omitempty,max=5000"`
	BlockedUntil *time.Time `json:"blockedUntil"`
}

// UpdateUserRequest is the PATCH payload; omitted fields stay unchanged.
type UpdateUserRequest struct {
	Role         *string      `json:"role" validate:"omitempty,oneof=admin user moderator"`
	Status       *string      `json:"status" validate:"omitempty,oneof=active inactive pending blocked"`
	AdminNotes   *string      `json:"adminNotes" validate:"omitempty,max=5000"`
	BlockedUntil OptionalTime `json:"blockedUntil"`
}

// UserDetail is the admin-visible user projection, password hash excluded.
type UserDetail struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         model.Role   `json:"role"`
	Status       model.Status `json:"status"`
	AdminNotes   string       `json:"adminNotes"`
	BlockedAt    *time.Time   `json:"blockedAt"`
	BlockedUntil *time.Time   `json:"blockedUntil"`
	LastLoginAt  *time.Time   `json:"lastLoginAt"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func newUserDetail(u *model.User) UserDetail {
	return UserDetail{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Status:       u.Status,
		AdminNotes:   u.AdminNotes,
		BlockedAt:    u.BlockedAt,
		BlockedUntil: u.BlockedUntil,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
	Pages    int64 `json:"pages"`
}

// ListUsersResponse is the paginated user listing.
type ListUsersResponse struct {
	Data       []UserDetail `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// ListBlockAuditsResponse wraps a user's audit trail.
type ListBlockAuditsResponse struct {
	Audits []model.BlockAuditEntry `json:"audits"`
}

// ListUsers godoc
// @Summary List users with pagination and filters
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size (max 100)"
// @Param search query string false "Name or email substring"
// @Param role query string false "Role filter"
// @Param status query string false "Status filter"
// @Success 200 {object} ListUsersResponse
// @Failure 400 {object} errors.ValidationResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = 25
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := repository.UserFilter{
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if role := c.QueryParam("role"); role != "" {
		if !model.Role(role).Valid() {
			return c.JSON(http.StatusBadRequest, apperrors.ValidationResponse{
				Errors: []apperrors.FieldError{{Field: "role", Msg: "unsupported role"}},
			})
		}
		filter.Role = model.Role(role)
	}
	if status := c.QueryParam("status"); status != "" {
		if !model.Status(status).Valid() {
			return c.JSON(http.StatusBadRequest, apperrors.ValidationResponse{
				Errors: []apperrors.FieldError{{Field: "status", Msg: "unsupported status"}},
			})
		}
		filter.Status = model.Status(status)
	}

	users, total, err := h.svc.ListUsers(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("list users: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.MessageResponse{Message: "Failed to list users"})
	}

	data := make([]UserDetail, 0, len(users))
	for i := range users {
		data = append(data, newUserDetail(&users[i]))
	}
	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	return c.JSON(http.StatusOK, ListUsersResponse{
		Data: data,
		Pagination: Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
			Pages:    pages,
		},
	})
}

// CreateUser godoc
// @Summary Create a user with explicit role and status
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ValidationResponse
// @Failure 409 {object} errors.MessageResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.NewValidationResponse(errors.New("invalid request body")))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.NewValidationResponse(err))
	}

	user, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         model.Role(req.Role),
		Status:       model.Status(req.Status),
		AdminNotes:   req.AdminNotes,
		BlockedUntil: req.BlockedUntil,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, apperrors.MessageResponse{Message: "Email already in use"})
		}
		c.Logger().Errorf("create user: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.MessageResponse{Message: "Failed to create user"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"id": user.ID})
}

// GetUser godoc
// @Summary Get user detail
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]UserDetail
// @Failure 404 {object} errors.MessageResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationResponse{
			Errors: []apperrors.FieldError{{Field: "id", Msg: "must be a UUID"}},
		})
	}

	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.MessageResponse{Message: "User not found"})
		}
		c.Logger().Errorf("get user: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.MessageResponse{Message: "Failed to fetch user detail"})
	}

	return c.JSON(http.StatusOK, map[string]UserDetail{"user": newUserDetail(user)})
}

// UpdateUser godoc
// @Summary Update role, status, notes or block deadline
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ValidationResponse
// @Failure 404 {object} errors.MessageResponse
// @Security BearerAuth
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationResponse{
			Errors: []apperrors.FieldError{{Field: "id", Msg: "must be a UUID"}},
		})
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.NewValidationResponse(errors.New("invalid request body")))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.NewValidationResponse(err))
	}

	identity, err := auth.IdentityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apperrors.MessageResponse{Message: "Authentication required"})
	}

	in := service.UpdateUserInput{
		AdminNotes:      req.AdminNotes,
		BlockedUntil:    req.BlockedUntil.Value,
		HasBlockedUntil: req.BlockedUntil.Set,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		in.Role = &role
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		in.Status = &status
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), id, in, identity.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.MessageResponse{Message: "User not found"})
		}
		c.Logger().Errorf("update user: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.MessageResponse{Message: "Failed to update user"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Updated", "id": user.ID})
}

// DeleteUser godoc
// @Summary Delete a user and cascade its audit trail
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.MessageResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationResponse{
			Errors: []apperrors.FieldError{{Field: "id", Msg: "must be a UUID"}},
		})
	}

	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.MessageResponse{Message: "User not found"})
		}
		c.Logger().Errorf("delete user: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.MessageResponse{Message: "Failed to delete user"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Deleted", "id": id})
}

// ListBlockAudits godoc
// @Summary List a user's block audit trail, newest first
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} ListBlockAuditsResponse
// @Failure 404 {object} errors.MessageResponse
// @Security BearerAuth
// @Router /users/{id}/block-audits [get]
func (h *UserHandler) ListBlockAudits(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ValidationResponse{
			Errors: []apperrors.FieldError{{Field: "id", Msg: "must be a UUID"}},
		})
	}

	audits, err := h.svc.ListBlockAudits(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.MessageResponse{Message: "User not found"})
		}
		c.Logger().Errorf("list block audits: %v", err)
		return c.JSON(http.StatusInternalServerError, apperrors.MessageResponse{Message: "Failed to list block audits"})
	}

	if audits == nil {
		audits = []model.BlockAuditEntry{}
	}
	return c.JSON(http.StatusOK, ListBlockAuditsResponse{Audits: audits})
}
