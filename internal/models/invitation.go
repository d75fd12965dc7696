package models

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "Pending"
	InvitationAccepted  InvitationStatus = "Accepted"
	InvitationRejected  InvitationStatus = "Rejected"
	InvitationCancelled InvitationStatus = "Cancelled"
)

func (s InvitationStatus) Terminal() bool {
	return s != InvitationPending
}

type Invitation struct {
	ID        uuid.UUID        `json:"id"`
	TeamID    uuid.UUID        `json:"team_id"`
	UserID    uuid.UUID        `json:"user_id"`
	InviterID uuid.UUID        `json:"inviter_id"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Team      *Team            `json:"team,omitempty"`
	Inviter   *User            `json:"inviter,omitempty"`
	Invitee   *User            `json:"invitee,omitempty"`
}
