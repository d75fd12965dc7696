package handlers

import (
	"strings"

	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type ProjectHandler struct {
	projectService ProjectServiceInterface
	access         teamAccess
	log            logrus.FieldLogger
}

func NewProjectHandler(projectService ProjectServiceInterface, teamService TeamServiceInterface, log logrus.FieldLogger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		access:         teamAccess{teams: teamService},
		log:            log,
	}
}

func (h *ProjectHandler) Create(c *drift.Context) {
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !bind(c, &req) {
		return
	}

	if !h.access.requireManage(c, h.log, teamID, "only team admins and managers can create projects") {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), teamID, req.Title, req.Description, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed to create project")
		return
	}
	_ = c.JSON(201, toProjectResponse(project))
}

func (h *ProjectHandler) ListByTeam(c *drift.Context) {
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}
	if !h.access.requireView(c, h.log, teamID, "team not found") {
		return
	}

	projects, err := h.projectService.ListByTeam(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, h.log, err, "failed to get projects")
		return
	}
	_ = c.JSON(200, toProjectResponses(projects))
}

func (h *ProjectHandler) Get(c *drift.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, h.log, err, "failed to get project")
		return
	}
	if !h.access.requireView(c, h.log, project.TeamID, "project not found") {
		return
	}
	_ = c.JSON(200, toProjectResponse(project))
}

func (h *ProjectHandler) Update(c *drift.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.GetByID(ctx, projectID)
	if err != nil {
		respondError(c, h.log, err, "failed to get project")
		return
	}
	if !h.access.requireManage(c, h.log, project.TeamID, "only team admins and managers can edit projects") {
		return
	}

	project, err = h.projectService.Update(ctx, projectID, req.Title, req.Description)
	if err != nil {
		respondError(c, h.log, err, "failed to update project")
		return
	}
	_ = c.JSON(200, toProjectResponse(project))
}

// Search matches ?q= against titles and descriptions. Callers without
// CapViewAll only search the projects of their own teams.
func (h *ProjectHandler) Search(c *drift.Context) {
	keyword := strings.TrimSpace(c.QueryParam("q"))
	if keyword == "" {
		c.BadRequest("q is required")
		return
	}

	ctx := c.Request.Context()
	if middleware.GetUserRole(c).Can(models.CapViewAll) {
		projects, err := h.projectService.Search(ctx, keyword)
		if err != nil {
			respondError(c, h.log, err, "failed to search projects")
			return
		}
		_ = c.JSON(200, toProjectResponses(projects))
		return
	}

	projects, err := h.projectService.ListByUser(ctx, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "failed to search projects")
		return
	}

	matched := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if containsFold(p.Title, keyword) || containsFold(p.Description, keyword) {
			matched = append(matched, p)
		}
	}
	_ = c.JSON(200, toProjectResponses(matched))
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
