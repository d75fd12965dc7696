package handlers

import (
	"fmt"

	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type SSEHandler struct {
	hub    HubInterface
	access teamAccess
	log    logrus.FieldLogger
}

func NewSSEHandler(hub HubInterface, teamService TeamServiceInterface, log logrus.FieldLogger) *SSEHandler {
	return &SSEHandler{
		hub:    hub,
		access: teamAccess{teams: teamService},
		log:    log,
	}
}

// Connect streams the events of team :id until the client goes away.
func (h *SSEHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}
	if !h.access.requireView(c, h.log, teamID, "team not found") {
		return
	}

	sseCtx := c.SSE()

	client := sse.NewClient(userID, teamID)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	clientID, teamID, ok := h.ownedClient(c)
	if !ok {
		return
	}
	if !h.access.requireView(c, h.log, teamID, "team not found") {
		return
	}

	if !h.hub.SubscribeToTeam(clientID, teamID) {
		c.NotFound("client not found")
		return
	}
	message(c, 200, fmt.Sprintf("subscribed to team %s", teamID), nil)
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	clientID, teamID, ok := h.ownedClient(c)
	if !ok {
		return
	}

	h.hub.UnsubscribeFromTeam(clientID, teamID)
	message(c, 200, fmt.Sprintf("unsubscribed from team %s", teamID), nil)
}

// ownedClient parses :clientId and :teamId and checks that the stream
// belongs to the caller.
func (h *SSEHandler) ownedClient(c *drift.Context) (string, uuid.UUID, bool) {
	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return "", uuid.Nil, false
	}

	teamID, ok := paramID(c, "teamId", "team")
	if !ok {
		return "", uuid.Nil, false
	}

	owner, found := h.hub.ClientOwner(clientID)
	if !found || owner != middleware.GetUserID(c) {
		c.NotFound("client not found")
		return "", uuid.Nil, false
	}
	return clientID, teamID, true
}
