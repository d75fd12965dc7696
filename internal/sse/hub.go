// Package sse fans team events out to connected Server-Sent Events clients.
package sse

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventTaskAssigned      = "task_assigned"
	EventTaskCompleted     = "task_completed"
	EventTaskApproved      = "task_approved"
	EventMemberJoined      = "member_joined"
	EventMemberRemoved     = "member_removed"
	EventInvitationCreated = "invitation_created"
)

type Event struct {
	Type   string      `json:"type"`
	TeamID uuid.UUID   `json:"team_id"`
	Data   interface{} `json:"data,omitempty"`
}

type AssignmentEvent struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	TaskID       uuid.UUID `json:"task_id"`
	UserID       uuid.UUID `json:"user_id"`
	ActorID      uuid.UUID `json:"actor_id"`
}

type MemberEvent struct {
	UserID  uuid.UUID `json:"user_id"`
	ActorID uuid.UUID `json:"actor_id"`
}

type InvitationEvent struct {
	InvitationID uuid.UUID `json:"invitation_id"`
	UserID       uuid.UUID `json:"user_id"`
	InviterID    uuid.UUID `json:"inviter_id"`
}

type Client struct {
	ID     string
	UserID uuid.UUID
	Teams  map[uuid.UUID]bool
	Send   chan []byte
}

func NewClient(userID uuid.UUID, teams ...uuid.UUID) *Client {
	c := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Teams:  make(map[uuid.UUID]bool, len(teams)),
		Send:   make(chan []byte, 256),
	}
	for _, id := range teams {
		c.Teams[id] = true
	}
	return c
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	log        logrus.FieldLogger
	mu         sync.RWMutex
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every remaining client. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.WithError(err).WithField("event", event.Type).Error("failed to encode event")
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if !client.Teams[event.TeamID] {
					continue
				}
				select {
				case client.Send <- data:
				default:
					h.log.WithField("client_id", client.ID).Debug("client buffer full, event dropped")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds client to the hub. Once the hub has stopped the client's
// Send channel is closed immediately.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister is a no-op once the hub has stopped; Run has already closed
// every client it held.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) SubscribeToTeam(clientID string, teamID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if ok {
		client.Teams[teamID] = true
	}
	return ok
}

func (h *Hub) UnsubscribeFromTeam(clientID string, teamID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Teams, teamID)
	}
}

// ClientOwner reports which user registered clientID.
func (h *Hub) ClientOwner(clientID string) (uuid.UUID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[clientID]
	if !ok {
		return uuid.Nil, false
	}
	return client.UserID, true
}

// Publish queues an event for every client subscribed to teamID. It never
// blocks the caller; when the queue is full the event is dropped.
func (h *Hub) Publish(teamID uuid.UUID, eventType string, data interface{}) {
	select {
	case h.broadcast <- Event{Type: eventType, TeamID: teamID, Data: data}:
	default:
		h.log.WithFields(logrus.Fields{"team_id": teamID, "event": eventType}).Warn("event queue full, event dropped")
	}
}
