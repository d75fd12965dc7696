package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/dimitrije/taskmanager-api/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, username, email string) (*models.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Search(ctx context.Context, keyword string) ([]models.User, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []models.Role, error)
	IsUserInTeam(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	GetMemberRole(ctx context.Context, teamID, userID uuid.UUID) (models.Role, error)
	GetMembers(ctx context.Context, teamID uuid.UUID, role *models.Role) ([]models.TeamMember, error)
	GetAdmins(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Create(ctx context.Context, teamID uuid.UUID, title, description string, createdBy uuid.UUID) (*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, title, description string) (*models.Project, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Project, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	Search(ctx context.Context, keyword string) ([]models.Project, error)
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	Create(ctx context.Context, projectID uuid.UUID, title, description string) (*models.TaskItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaskItem, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.TaskItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskItem, error)
	Search(ctx context.Context, keyword string) ([]models.TaskItem, error)
	TeamID(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error)
}

// AssignmentServiceInterface defines the methods used by handlers from AssignmentService
type AssignmentServiceInterface interface {
	AssignTask(ctx context.Context, taskID, userID, assignerID uuid.UUID, dueDate *time.Time) (*models.TaskAssignment, error)
	CompleteTask(ctx context.Context, taskID, userID uuid.UUID) (*models.TaskAssignment, error)
	ApproveTaskCompletion(ctx context.Context, assignmentID, controllerID uuid.UUID) (*models.TaskAssignment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]models.TaskAssignment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error)
	ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error)
	ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error)
}

// InvitationServiceInterface defines the methods used by handlers from InvitationService
type InvitationServiceInterface interface {
	CreateInvitation(ctx context.Context, teamID, invitedUserID, inviterID uuid.UUID) (*models.Invitation, error)
	AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error)
	RejectInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error)
	CancelInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error)
	ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string, role models.Role) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// LoginLimiterInterface defines the methods used by handlers from LoginLimiter
type LoginLimiterInterface interface {
	Allowed(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
	RetryAfter() time.Duration
}

// HubInterface defines the methods used by handlers from the SSE Hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	SubscribeToTeam(clientID string, teamID uuid.UUID) bool
	UnsubscribeFromTeam(clientID string, teamID uuid.UUID)
	ClientOwner(clientID string) (uuid.UUID, bool)
}

// EventPublisher fans team events out to live subscribers.
type EventPublisher interface {
	Publish(teamID uuid.UUID, eventType string, data interface{})
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendTeamInvitation(to, teamName, inviterName, invitationURL string) error
}
