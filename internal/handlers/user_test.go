package handlers

import (
	"net/http"
	"testing"

	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
	"github.com/dimitrije/taskmanager-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupUserTest() (*testutil.MockUserService, *services.JWTService, http.Handler) {
	users := new(testutil.MockUserService)
	jwtSvc := newTestJWTService()
	handler := NewUserHandler(users, nullLogger())

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/users/me", handler.GetMe)
	app.Patch("/users/me", handler.UpdateMe)
	app.Post("/users/me/password", handler.ChangePassword)
	app.Get("/users", handler.List)
	app.Get("/users/:id", handler.Get)
	app.Patch("/users/:id/role", handler.SetRole)

	return users, jwtSvc, app
}

func TestUserHandler_GetMe(t *testing.T) {
	users, jwtSvc, app := setupUserTest()
	who := newCaller(t, jwtSvc, models.RoleWorker)
	users.On("GetByID", mock.Anything, who.ID).Return(&models.User{ID: who.ID, Username: "alice", Role: models.RoleWorker}, nil)

	rec := do(t, app, http.MethodGet, "/users/me", nil, &who)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.UserResponse
	decode(t, rec, &resp)
	assert.Equal(t, "alice", resp.Username)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	users, jwtSvc, app := setupUserTest()
	who := newCaller(t, jwtSvc, models.RoleWorker)
	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(nil, services.ErrUserNotFound)

	rec := do(t, app, http.MethodGet, "/users/"+id.String(), nil, &who)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")
}

func TestUserHandler_UpdateMe_Conflict(t *testing.T) {
	users, jwtSvc, app := setupUserTest()
	who := newCaller(t, jwtSvc, models.RoleWorker)
	users.On("Update", mock.Anything, who.ID, "alice", "taken@example.com").Return(nil, services.ErrIdentityTaken)

	rec := do(t, app, http.MethodPatch, "/users/me", dto.UpdateUserRequest{Username: "alice", Email: "taken@example.com"}, &who)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserHandler_ChangePassword_WrongCurrent(t *testing.T) {
	users, jwtSvc, app := setupUserTest()
	who := newCaller(t, jwtSvc, models.RoleWorker)
	users.On("ChangePassword", mock.Anything, who.ID, "wrong", "newpassword1").Return(services.ErrInvalidCredentials)

	rec := do(t, app, http.MethodPost, "/users/me/password", dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword1",
	}, &who)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_List(t *testing.T) {
	controllers := []models.User{{ID: uuid.New(), Username: "carol", Role: models.RoleController}}

	tests := []struct {
		name       string
		query      string
		setup      func(*testutil.MockUserService)
		wantStatus int
	}{
		{
			name:  "by role",
			query: "?role=controller",
			setup: func(m *testutil.MockUserService) {
				m.On("ListByRole", mock.Anything, models.RoleController).Return(controllers, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "search",
			query: "?q=car",
			setup: func(m *testutil.MockUserService) {
				m.On("Search", mock.Anything, "car").Return(controllers, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "all",
			query: "",
			setup: func(m *testutil.MockUserService) {
				m.On("List", mock.Anything).Return(controllers, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid role",
			query:      "?role=boss",
			setup:      func(*testutil.MockUserService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, jwtSvc, app := setupUserTest()
			who := newCaller(t, jwtSvc, models.RoleManager)
			tt.setup(users)

			rec := do(t, app, http.MethodGet, "/users"+tt.query, nil, &who)

			assert.Equal(t, tt.wantStatus, rec.Code)
			users.AssertExpectations(t)
		})
	}
}

func TestUserHandler_SetRole(t *testing.T) {
	target := uuid.New()

	tests := []struct {
		name       string
		role       models.Role
		body       dto.SetRoleRequest
		wantStatus int
	}{
		{"admin grants controller", models.RoleAdmin, dto.SetRoleRequest{Role: "Controller"}, http.StatusOK},
		{"manager cannot grant", models.RoleManager, dto.SetRoleRequest{Role: "Controller"}, http.StatusForbidden},
		{"unknown role", models.RoleAdmin, dto.SetRoleRequest{Role: "Owner"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, jwtSvc, app := setupUserTest()
			who := newCaller(t, jwtSvc, tt.role)
			users.On("SetRole", mock.Anything, target, models.RoleController).
				Return(&models.User{ID: target, Role: models.RoleController}, nil)

			rec := do(t, app, http.MethodPatch, "/users/"+target.String()+"/role", tt.body, &who)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp dto.UserResponse
				decode(t, rec, &resp)
				assert.Equal(t, "Controller", resp.Role)
			} else {
				users.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
