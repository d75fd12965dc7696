package handlers

import (
	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/sse"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type TeamHandler struct {
	teamService TeamServiceInterface
	access      teamAccess
	events      EventPublisher
	log         logrus.FieldLogger
}

func NewTeamHandler(teamService TeamServiceInterface, events EventPublisher, log logrus.FieldLogger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		access:      teamAccess{teams: teamService},
		events:      events,
		log:         log,
	}
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTeamRequest
	if !bind(c, &req) {
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), req.Name, userID)
	if err != nil {
		respondError(c, h.log, err, "failed to create team")
		return
	}

	_ = c.JSON(201, toTeamResponse(team, models.RoleAdmin))
}

// List returns the caller's teams with their role in each. Callers who can
// view everything may pass ?all=true.
func (h *TeamHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}
	ctx := c.Request.Context()

	if c.QueryParam("all") == "true" && middleware.GetUserRole(c).Can(models.CapViewAll) {
		teams, err := h.teamService.List(ctx)
		if err != nil {
			respondError(c, h.log, err, "failed to get teams")
			return
		}
		response := make([]dto.TeamResponse, len(teams))
		for i := range teams {
			response[i] = *toTeamResponse(&teams[i], "")
		}
		_ = c.JSON(200, response)
		return
	}

	teams, roles, err := h.teamService.GetUserTeams(ctx, userID)
	if err != nil {
		respondError(c, h.log, err, "failed to get teams")
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i := range teams {
		response[i] = *toTeamResponse(&teams[i], roles[i])
	}
	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}
	if !h.access.requireView(c, h.log, teamID, "team not found") {
		return
	}

	ctx := c.Request.Context()
	team, err := h.teamService.GetByID(ctx, teamID)
	if err != nil {
		respondError(c, h.log, err, "failed to get team")
		return
	}

	role, err := h.teamService.GetMemberRole(ctx, teamID, userID)
	if err != nil {
		role = ""
	}
	_ = c.JSON(200, toTeamResponse(team, role))
}

// GetMembers lists the registry rows of a team, optionally filtered by ?role=.
func (h *TeamHandler) GetMembers(c *drift.Context) {
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}

	var filter *models.Role
	if raw := c.QueryParam("role"); raw != "" {
		role, err := models.ParseRole(raw)
		if err != nil {
			c.BadRequest("invalid role")
			return
		}
		filter = &role
	}

	if !h.access.requireView(c, h.log, teamID, "team not found") {
		return
	}

	members, err := h.teamService.GetMembers(c.Request.Context(), teamID, filter)
	if err != nil {
		respondError(c, h.log, err, "failed to get members")
		return
	}
	_ = c.JSON(200, toMemberResponses(members))
}

func (h *TeamHandler) GetAdmins(c *drift.Context) {
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}
	if !h.access.requireView(c, h.log, teamID, "team not found") {
		return
	}

	admins, err := h.teamService.GetAdmins(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, h.log, err, "failed to get admins")
		return
	}
	_ = c.JSON(200, toMemberResponses(admins))
}

// RemoveMember lets a team manager remove anyone, and any member remove
// themselves.
func (h *TeamHandler) RemoveMember(c *drift.Context) {
	userID := middleware.GetUserID(c)
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "memberId", "member")
	if !ok {
		return
	}

	if memberID != userID && !h.access.requireManage(c, h.log, teamID, "only team admins can remove members") {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), teamID, memberID); err != nil {
		respondError(c, h.log, err, "failed to remove member")
		return
	}

	h.events.Publish(teamID, sse.EventMemberRemoved, sse.MemberEvent{UserID: memberID, ActorID: userID})
	message(c, 200, "member removed", nil)
}
