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

type InvitationHandler struct {
	invitationService InvitationServiceInterface
	userService       UserServiceInterface
	emailService      EmailServiceInterface
	access            teamAccess
	events            EventPublisher
	baseURL           string
	log               logrus.FieldLogger
}

func NewInvitationHandler(
	invitationService InvitationServiceInterface,
	teamService TeamServiceInterface,
	userService UserServiceInterface,
	emailService EmailServiceInterface,
	events EventPublisher,
	baseURL string,
	log logrus.FieldLogger,
) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		userService:       userService,
		emailService:      emailService,
		access:            teamAccess{teams: teamService},
		events:            events,
		baseURL:           baseURL,
		log:               log,
	}
}

// Create invites a user, named by id or email, into the team.
func (h *InvitationHandler) Create(c *drift.Context) {
	inviterID := middleware.GetUserID(c)
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}

	var req dto.InviteMemberRequest
	if !bind(c, &req) {
		return
	}

	if !h.access.requireManage(c, h.log, teamID, "only team admins can invite members") {
		return
	}

	ctx := c.Request.Context()
	inviteeID := optionalID(req.UserID, uuid.Nil)
	if inviteeID == uuid.Nil {
		invitee, err := h.userService.GetByEmail(ctx, req.Email)
		if err != nil {
			respondError(c, h.log, err, "failed to find user")
			return
		}
		inviteeID = invitee.ID
	}

	invitation, err := h.invitationService.CreateInvitation(ctx, teamID, inviteeID, inviterID)
	if err != nil {
		respondError(c, h.log, err, "failed to create invitation")
		return
	}

	h.events.Publish(teamID, sse.EventInvitationCreated, sse.InvitationEvent{
		InvitationID: invitation.ID,
		UserID:       inviteeID,
		InviterID:    inviterID,
	})
	h.notify(c, invitation)

	message(c, 201, "invitation sent", toInvitationResponse(invitation))
}

// notify emails the invitee. A failed send is logged and does not fail the
// request; the invitation is already stored.
func (h *InvitationHandler) notify(c *drift.Context, invitation *models.Invitation) {
	if invitation.Invitee == nil || invitation.Team == nil {
		return
	}

	inviterName := "A teammate"
	if inviter, err := h.userService.GetByID(c.Request.Context(), invitation.InviterID); err == nil {
		inviterName = inviter.Username
	}

	url := h.baseURL + "/invite/" + invitation.ID.String()
	if err := h.emailService.SendTeamInvitation(invitation.Invitee.Email, invitation.Team.Name, inviterName, url); err != nil {
		h.log.WithError(err).WithField("invitation_id", invitation.ID).Warn("failed to send invitation email")
	}
}

func (h *InvitationHandler) ListForTeam(c *drift.Context) {
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}
	if !h.access.requireManage(c, h.log, teamID, "only team admins can view invitations") {
		return
	}

	invitations, err := h.invitationService.ListPendingForTeam(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, h.log, err, "failed to get invitations")
		return
	}
	_ = c.JSON(200, toInvitationResponses(invitations))
}

func (h *InvitationHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitations, err := h.invitationService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to get invitations")
		return
	}
	_ = c.JSON(200, toInvitationResponses(invitations))
}

func (h *InvitationHandler) Accept(c *drift.Context) {
	userID := middleware.GetUserID(c)
	invitationID, ok := paramID(c, "id", "invitation")
	if !ok {
		return
	}

	invitation, err := h.invitationService.AcceptInvitation(c.Request.Context(), invitationID, userID)
	if err != nil {
		respondError(c, h.log, err, "failed to accept invitation")
		return
	}

	h.events.Publish(invitation.TeamID, sse.EventMemberJoined, sse.MemberEvent{UserID: invitation.UserID, ActorID: userID})
	message(c, 200, "invitation accepted", toInvitationResponse(invitation))
}

func (h *InvitationHandler) Reject(c *drift.Context) {
	userID := middleware.GetUserID(c)
	invitationID, ok := paramID(c, "id", "invitation")
	if !ok {
		return
	}

	invitation, err := h.invitationService.RejectInvitation(c.Request.Context(), invitationID, userID)
	if err != nil {
		respondError(c, h.log, err, "failed to reject invitation")
		return
	}
	message(c, 200, "invitation rejected", toInvitationResponse(invitation))
}

func (h *InvitationHandler) Cancel(c *drift.Context) {
	userID := middleware.GetUserID(c)
	invitationID, ok := paramID(c, "id", "invitation")
	if !ok {
		return
	}

	invitation, err := h.invitationService.CancelInvitation(c.Request.Context(), invitationID, userID)
	if err != nil {
		respondError(c, h.log, err, "failed to cancel invitation")
		return
	}
	message(c, 200, "invitation cancelled", toInvitationResponse(invitation))
}
