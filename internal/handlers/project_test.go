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

func setupProjectTest() (*testutil.MockProjectService, *testutil.MockTeamService, *services.JWTService, http.Handler) {
	projects := new(testutil.MockProjectService)
	teams := new(testutil.MockTeamService)
	jwtSvc := newTestJWTService()
	handler := NewProjectHandler(projects, teams, nullLogger())

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/projects", handler.Create)
	app.Get("/teams/:id/projects", handler.ListByTeam)
	app.Get("/projects/search", handler.Search)
	app.Get("/projects/:id", handler.Get)
	app.Patch("/projects/:id", handler.Update)

	return projects, teams, jwtSvc, app
}

func TestProjectHandler_Create(t *testing.T) {
	projects, teams, jwtSvc, app := setupProjectTest()
	who := newCaller(t, jwtSvc, models.RoleWorker)
	teamID := uuid.New()
	project := &models.Project{ID: uuid.New(), TeamID: teamID, Title: "Launch", CreatedBy: who.ID}

	teams.On("GetMemberRole", mock.Anything, teamID, who.ID).Return(models.RoleManager, nil)
	projects.On("Create", mock.Anything, teamID, "Launch", "", who.ID).Return(project, nil)

	rec := do(t, app, http.MethodPost, "/teams/"+teamID.String()+"/projects", dto.CreateProjectRequest{Title: "Launch"}, &who)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.ProjectResponse
	decode(t, rec, &resp)
	assert.Equal(t, project.ID, resp.ID)
}

func TestProjectHandler_Create_WorkerForbidden(t *testing.T) {
	projects, teams, jwtSvc, app := setupProjectTest()
	who := newCaller(t, jwtSvc, models.RoleWorker)
	teamID := uuid.New()

	teams.On("GetMemberRole", mock.Anything, teamID, who.ID).Return(models.RoleWorker, nil)

	rec := do(t, app, http.MethodPost, "/teams/"+teamID.String()+"/projects", dto.CreateProjectRequest{Title: "Launch"}, &who)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectHandler_Get(t *testing.T) {
	projects, teams, jwtSvc, app := setupProjectTest()
	who := newCaller(t, jwtSvc, models.RoleWorker)
	project := &models.Project{ID: uuid.New(), TeamID: uuid.New(), Title: "Launch"}
	missing := uuid.New()

	projects.On("GetByID", mock.Anything, project.ID).Return(project, nil)
	projects.On("GetByID", mock.Anything, missing).Return(nil, services.ErrProjectNotFound)
	teams.On("IsUserInTeam", mock.Anything, project.TeamID, who.ID).Return(true, nil)

	rec := do(t, app, http.MethodGet, "/projects/"+project.ID.String(), nil, &who)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, app, http.MethodGet, "/projects/"+missing.String(), nil, &who)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, app, http.MethodGet, "/projects/not-an-id", nil, &who)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectHandler_Search(t *testing.T) {
	projects, _, jwtSvc, app := setupProjectTest()
	manager := newCaller(t, jwtSvc, models.RoleManager)
	all := []models.Project{{ID: uuid.New(), Title: "Launch v2"}}

	projects.On("Search", mock.Anything, "launch").Return(all, nil)

	rec := do(t, app, http.MethodGet, "/projects/search?q=launch", nil, &manager)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.ProjectResponse
	decode(t, rec, &resp)
	assert.Len(t, resp, 1)

	rec = do(t, app, http.MethodGet, "/projects/search", nil, &manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
