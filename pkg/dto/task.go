package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type AssignTaskRequest struct {
	TaskID     string     `json:"task_id" validate:"required,uuid"`
	UserID     string     `json:"user_id" validate:"required,uuid"`
	AssignerID string     `json:"assigner_id" validate:"omitempty,uuid"`
	DueDate    *time.Time `json:"due_date"`
}

type CompleteTaskRequest struct {
	TaskID string `json:"task_id" validate:"required,uuid"`
	UserID string `json:"user_id" validate:"omitempty,uuid"`
}

type ApproveTaskRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required,uuid"`
	ControllerID string `json:"controller_id" validate:"omitempty,uuid"`
}

type AssignmentResponse struct {
	ID          uuid.UUID     `json:"id"`
	TaskID      uuid.UUID     `json:"task_id"`
	UserID      uuid.UUID     `json:"user_id"`
	AssignedBy  uuid.UUID     `json:"assigned_by"`
	State       string        `json:"state"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	IsCompleted bool          `json:"is_completed"`
	IsApproved  bool          `json:"is_approved_by_controller"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	ApprovedAt  *time.Time    `json:"approved_at,omitempty"`
	ApprovedBy  *uuid.UUID    `json:"approved_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Task        *TaskResponse `json:"task,omitempty"`
	User        *UserResponse `json:"user,omitempty"`
}

// MessageResponse is the envelope for workflow results.
type MessageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
