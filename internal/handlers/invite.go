package handlers

import (
	"bytes"
	"html/template"

	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

// InvitePage renders the link sent in invitation emails. It is read-only:
// accepting requires an authenticated call to the API.
type InvitePage struct {
	invitationService InvitationServiceInterface
	teamService       TeamServiceInterface
	userService       UserServiceInterface
	log               logrus.FieldLogger
}

func NewInvitePage(invitationService InvitationServiceInterface, teamService TeamServiceInterface, userService UserServiceInterface, log logrus.FieldLogger) *InvitePage {
	return &InvitePage{
		invitationService: invitationService,
		teamService:       teamService,
		userService:       userService,
		log:               log,
	}
}

var invitePageTmpl = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 400px; margin: 50px auto; padding: 20px; text-align: center; }
        h1 { color: #333; }
        h1.error { color: #ef4444; }
        p { color: #666; margin: 20px 0; }
        .team-name { font-weight: bold; color: #333; }
    </style>
</head>
<body>
    <h1{{if .Failed}} class="error"{{end}}>{{.Heading}}</h1>
    {{if .TeamName}}<p><strong>{{.InviterName}}</strong> has invited you to join</p>
    <p class="team-name">{{.TeamName}}</p>{{end}}
    <p>{{.Message}}</p>
</body>
</html>`))

type invitePageData struct {
	Title       string
	Heading     string
	Failed      bool
	InviterName string
	TeamName    string
	Message     string
}

func (h *InvitePage) View(c *drift.Context) {
	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.render(c, 400, invitePageData{Title: "Error", Heading: "Error", Failed: true, Message: "Invalid invite link"})
		return
	}

	ctx := c.Request.Context()
	invitation, err := h.invitationService.GetByID(ctx, invitationID)
	if err != nil {
		h.render(c, 404, invitePageData{Title: "Error", Heading: "Error", Failed: true, Message: "Invite not found"})
		return
	}

	if invitation.Status != models.InvitationPending {
		h.render(c, 200, invitePageData{
			Title:   "Team Invitation",
			Heading: "Invitation " + string(invitation.Status),
			Message: "This invitation is no longer pending.",
		})
		return
	}

	data := invitePageData{
		Title:       "Team Invitation",
		Heading:     "Team Invitation",
		InviterName: "Someone",
		TeamName:    "a team",
		Message:     "Sign in to accept or decline this invitation.",
	}
	if team, err := h.teamService.GetByID(ctx, invitation.TeamID); err == nil {
		data.TeamName = team.Name
	}
	if inviter, err := h.userService.GetByID(ctx, invitation.InviterID); err == nil {
		data.InviterName = inviter.Username
	}
	h.render(c, 200, data)
}

func (h *InvitePage) render(c *drift.Context, status int, data invitePageData) {
	var buf bytes.Buffer
	if err := invitePageTmpl.Execute(&buf, data); err != nil {
		h.log.WithError(err).Error("failed to render invite page")
		c.InternalServerError("failed to render page")
		return
	}
	_ = c.HTML(status, buf.String())
}
