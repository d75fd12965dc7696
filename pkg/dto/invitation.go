package dto

import (
	"time"

	"github.com/google/uuid"
)

// InviteMemberRequest names the invitee by id or by email; one is required.
type InviteMemberRequest struct {
	UserID string `json:"user_id" validate:"required_without=Email,omitempty,uuid"`
	Email  string `json:"email" validate:"required_without=UserID,omitempty,email"`
}

type InvitationResponse struct {
	ID        uuid.UUID     `json:"id"`
	TeamID    uuid.UUID     `json:"team_id"`
	UserID    uuid.UUID     `json:"user_id"`
	InviterID uuid.UUID     `json:"inviter_id"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	Team      *TeamResponse `json:"team,omitempty"`
	Inviter   *UserResponse `json:"inviter,omitempty"`
	Invitee   *UserResponse `json:"invitee,omitempty"`
}
