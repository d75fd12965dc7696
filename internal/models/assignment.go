package models

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentState string

const (
	AssignmentAssigned  AssignmentState = "assigned"
	AssignmentCompleted AssignmentState = "completed"
	AssignmentApproved  AssignmentState = "approved"
)

// TaskAssignment binds one user to one task. IsApprovedByController is never
// true while IsCompleted is false; the table carries a CHECK for it too.
type TaskAssignment struct {
	ID                     uuid.UUID  `json:"id"`
	TaskID                 uuid.UUID  `json:"task_id"`
	UserID                 uuid.UUID  `json:"user_id"`
	AssignedBy             uuid.UUID  `json:"assigned_by"`
	CreatedAt              time.Time  `json:"created_at"`
	DueDate                *time.Time `json:"due_date,omitempty"`
	IsCompleted            bool       `json:"is_completed"`
	IsApprovedByController bool       `json:"is_approved_by_controller"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
	ApprovedAt             *time.Time `json:"approved_at,omitempty"`
	ApprovedBy             *uuid.UUID `json:"approved_by,omitempty"`
	Task                   *TaskItem  `json:"task,omitempty"`
	User                   *User      `json:"user,omitempty"`
}

func (a *TaskAssignment) State() AssignmentState {
	switch {
	case a.IsApprovedByController:
		return AssignmentApproved
	case a.IsCompleted:
		return AssignmentCompleted
	default:
		return AssignmentAssigned
	}
}
