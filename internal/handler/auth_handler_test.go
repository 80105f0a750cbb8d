package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/anandkanishkZ/pds/internal/errors"
	"github.com/anandkanishkZ/pds/internal/model"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

type testValidator struct {
	v *validator.Validate
}

func (t *testValidator) Validate(i interface{}) error { return t.v.Struct(i) }

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	userID := uuid.New()
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "admin@example.com", "password123").
		Return("signed-token", &model.User{
			ID:    userID,
			Name:  "Admin",
			Email: "admin@example.com",
			Role:  model.RoleAdmin,
		}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login",
		`{"email":"admin@example.com","password":"password123"}`)

	assert.NoError(t, NewAuthHandler(svc).Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, userID.String(), user["id"])
	assert.Equal(t, "Admin", user["name"])
	assert.Equal(t, "admin@example.com", user["email"])
	assert.Equal(t, "admin", user["role"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "admin@example.com", "wrongpassword").
		Return("", nil, apperrors.ErrInvalidCredentials)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login",
		`{"email":"admin@example.com","password":"wrongpassword"}`)

	assert.NoError(t, NewAuthHandler(svc).Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestAuthHandler_Login_Blocked(t *testing.T) {
	tests := []struct {
		name      string
		remaining *int64
	}{
		{name: "with countdown", remaining: func() *int64 { v := int64(60); return &v }()},
		{name: "indefinite or stale deadline", remaining: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			svc.On("Login", mock.Anything, "blocked@example.com", "password123").
				Return("", nil, &apperrors.AccountBlockedError{RemainingBlockSeconds: tt.remaining})

			c, rec := newTestContext(http.MethodPost, "/api/auth/login",
				`{"email":"blocked@example.com","password":"password123"}`)

			assert.NoError(t, NewAuthHandler(svc).Login(c))
			assert.Equal(t, http.StatusForbidden, rec.Code)

			var body map[string]interface{}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Account is blocked. Contact support.", body["message"])
			val, present := body["remainingBlockSeconds"]
			assert.True(t, present, "remainingBlockSeconds must always be in the body")
			if tt.remaining == nil {
				assert.Nil(t, val)
			} else {
				assert.Equal(t, float64(*tt.remaining), val)
			}
		})
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, "Someone", "taken@example.com", "password123").
		Return(nil, apperrors.ErrDuplicateEmail)

	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"name":"Someone","email":"taken@example.com","password":"password123"}`)

	assert.NoError(t, NewAuthHandler(svc).Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Email already in use", body["message"])
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	svc := new(MockAuthService)

	// password shorter than 6 characters never reaches the service
	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"name":"Someone","email":"someone@example.com","password":"short"}`)

	assert.NoError(t, NewAuthHandler(svc).Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []map[string]string `json:"errors"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Errors)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	userID := uuid.New()
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, "Someone", "someone@example.com", "password123").
		Return(&model.User{
			ID:           userID,
			Name:         "Someone",
			Email:        "someone@example.com",
			Role:         model.RoleAdmin,
			Status:       model.StatusActive,
			PasswordHash: "hash",
		}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"name":"Someone","email":"someone@example.com","password":"password123"}`)

	assert.NoError(t, NewAuthHandler(svc).Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["id"])
	assert.Equal(t, "Someone", body["name"])
	assert.Equal(t, "someone@example.com", body["email"])
	// no hash and no role leak through the registration response
	_, hasRole := body["role"]
	assert.False(t, hasRole)
}
