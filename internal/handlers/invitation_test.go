package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/dimitrije/taskmanager-api/internal/sse"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
	"github.com/dimitrije/taskmanager-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invitationFixture struct {
	invitations *testutil.MockInvitationService
	teams       *testutil.MockTeamService
	users       *testutil.MockUserService
	email       *testutil.MockEmailService
	events      *testutil.RecordingPublisher
	jwt         *services.JWTService
	app         http.Handler
}

func setupInvitationTest() *invitationFixture {
	f := &invitationFixture{
		invitations: new(testutil.MockInvitationService),
		teams:       new(testutil.MockTeamService),
		users:       new(testutil.MockUserService),
		email:       new(testutil.MockEmailService),
		events:      &testutil.RecordingPublisher{},
		jwt:         newTestJWTService(),
	}
	handler := NewInvitationHandler(f.invitations, f.teams, f.users, f.email, f.events, "https://tasks.example.com", nullLogger())

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(f.jwt))
	app.Post("/teams/:id/invitations", handler.Create)
	app.Get("/teams/:id/invitations", handler.ListForTeam)
	app.Get("/invitations", handler.ListMine)
	app.Post("/invitations/:id/accept", handler.Accept)
	app.Post("/invitations/:id/reject", handler.Reject)
	app.Delete("/invitations/:id", handler.Cancel)
	f.app = app
	return f
}

func TestInvitationHandler_Create_ByEmail(t *testing.T) {
	f := setupInvitationTest()
	who := newCaller(t, f.jwt, models.RoleWorker)
	teamID := uuid.New()
	invitee := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	invitation := &models.Invitation{
		ID:        uuid.New(),
		TeamID:    teamID,
		UserID:    invitee.ID,
		InviterID: who.ID,
		Status:    models.InvitationPending,
		Team:      &models.Team{ID: teamID, Name: "Platform"},
		Invitee:   invitee,
	}

	f.teams.On("GetMemberRole", mock.Anything, teamID, who.ID).Return(models.RoleAdmin, nil)
	f.users.On("GetByEmail", mock.Anything, "bob@example.com").Return(invitee, nil)
	f.invitations.On("CreateInvitation", mock.Anything, teamID, invitee.ID, who.ID).Return(invitation, nil)
	f.users.On("GetByID", mock.Anything, who.ID).Return(&models.User{ID: who.ID, Username: "alice"}, nil)
	f.email.On("SendTeamInvitation", "bob@example.com", "Platform", "alice",
		"https://tasks.example.com/invite/"+invitation.ID.String()).Return(nil)

	rec := do(t, f.app, http.MethodPost, "/teams/"+teamID.String()+"/invitations", dto.InviteMemberRequest{Email: "bob@example.com"}, &who)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "invitation sent")

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, sse.EventInvitationCreated, events[0].Type)
	assert.Equal(t, teamID, events[0].TeamID)

	f.invitations.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestInvitationHandler_Create_EmailFailureStillSucceeds(t *testing.T) {
	f := setupInvitationTest()
	who := newCaller(t, f.jwt, models.RoleAdmin)
	teamID := uuid.New()
	inviteeID := uuid.New()
	invitation := &models.Invitation{
		ID:        uuid.New(),
		TeamID:    teamID,
		UserID:    inviteeID,
		InviterID: who.ID,
		Status:    models.InvitationPending,
		Team:      &models.Team{ID: teamID, Name: "Platform"},
		Invitee:   &models.User{ID: inviteeID, Email: "bob@example.com"},
	}

	f.invitations.On("CreateInvitation", mock.Anything, teamID, inviteeID, who.ID).Return(invitation, nil)
	f.users.On("GetByID", mock.Anything, who.ID).Return(nil, services.ErrUserNotFound)
	f.email.On("SendTeamInvitation", "bob@example.com", "Platform", "A teammate", mock.Anything).Return(errors.New("smtp down"))

	rec := do(t, f.app, http.MethodPost, "/teams/"+teamID.String()+"/invitations", dto.InviteMemberRequest{UserID: inviteeID.String()}, &who)

	assert.Equal(t, http.StatusCreated, rec.Code)
	f.teams.AssertNotCalled(t, "GetMemberRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvitationHandler_Create_Errors(t *testing.T) {
	teamID := uuid.New()
	inviteeID := uuid.New()

	tests := []struct {
		name       string
		body       dto.InviteMemberRequest
		teamRole   models.Role
		createErr  error
		wantStatus int
	}{
		{"missing invitee", dto.InviteMemberRequest{}, models.RoleAdmin, nil, http.StatusBadRequest},
		{"worker cannot invite", dto.InviteMemberRequest{UserID: inviteeID.String()}, models.RoleWorker, nil, http.StatusForbidden},
		{"already member", dto.InviteMemberRequest{UserID: inviteeID.String()}, models.RoleAdmin, services.ErrAlreadyMember, http.StatusConflict},
		{"pending exists", dto.InviteMemberRequest{UserID: inviteeID.String()}, models.RoleAdmin, services.ErrPendingInvitation, http.StatusConflict},
		{"unknown invitee", dto.InviteMemberRequest{UserID: inviteeID.String()}, models.RoleAdmin, services.ErrUserNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupInvitationTest()
			who := newCaller(t, f.jwt, models.RoleWorker)

			f.teams.On("GetMemberRole", mock.Anything, teamID, who.ID).Return(tt.teamRole, nil)
			f.invitations.On("CreateInvitation", mock.Anything, teamID, inviteeID, who.ID).Return(nil, tt.createErr)

			rec := do(t, f.app, http.MethodPost, "/teams/"+teamID.String()+"/invitations", tt.body, &who)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, f.events.Events())
		})
	}
}

func TestInvitationHandler_Accept(t *testing.T) {
	f := setupInvitationTest()
	who := newCaller(t, f.jwt, models.RoleWorker)
	teamID := uuid.New()
	invitation := &models.Invitation{
		ID:        uuid.New(),
		TeamID:    teamID,
		UserID:    who.ID,
		InviterID: uuid.New(),
		Status:    models.InvitationAccepted,
	}

	f.invitations.On("AcceptInvitation", mock.Anything, invitation.ID, who.ID).Return(invitation, nil)

	rec := do(t, f.app, http.MethodPost, "/invitations/"+invitation.ID.String()+"/accept", nil, &who)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invitation accepted")

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, sse.EventMemberJoined, events[0].Type)
	assert.Equal(t, sse.MemberEvent{UserID: who.ID, ActorID: who.ID}, events[0].Data)
}

func TestInvitationHandler_Respond_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		suffix     string
		mockMethod string
		err        error
		wantStatus int
	}{
		{"accept by stranger", http.MethodPost, "/accept", "AcceptInvitation", services.ErrNotInvitee, http.StatusForbidden},
		{"accept resolved", http.MethodPost, "/accept", "AcceptInvitation", services.ErrInvitationResolved, http.StatusConflict},
		{"reject missing", http.MethodPost, "/reject", "RejectInvitation", services.ErrInvitationNotFound, http.StatusNotFound},
		{"cancel by non inviter", http.MethodDelete, "", "CancelInvitation", services.ErrNotInviter, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupInvitationTest()
			who := newCaller(t, f.jwt, models.RoleWorker)
			invitationID := uuid.New()

			f.invitations.On(tt.mockMethod, mock.Anything, invitationID, who.ID).Return(nil, tt.err)

			rec := do(t, f.app, tt.method, "/invitations/"+invitationID.String()+tt.suffix, nil, &who)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, f.events.Events())
		})
	}
}

func TestInvitationHandler_ListMine(t *testing.T) {
	f := setupInvitationTest()
	who := newCaller(t, f.jwt, models.RoleWorker)
	invitations := []models.Invitation{
		{ID: uuid.New(), TeamID: uuid.New(), UserID: who.ID, Status: models.InvitationPending},
	}

	f.invitations.On("ListForUser", mock.Anything, who.ID).Return(invitations, nil)

	rec := do(t, f.app, http.MethodGet, "/invitations", nil, &who)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.InvitationResponse
	decode(t, rec, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "Pending", resp[0].Status)
}

func TestInvitationHandler_ListForTeam_RequiresManager(t *testing.T) {
	f := setupInvitationTest()
	who := newCaller(t, f.jwt, models.RoleWorker)
	teamID := uuid.New()

	f.teams.On("GetMemberRole", mock.Anything, teamID, who.ID).Return(models.Role(""), services.ErrMemberNotFound)

	rec := do(t, f.app, http.MethodGet, "/teams/"+teamID.String()+"/invitations", nil, &who)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
