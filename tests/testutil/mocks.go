package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/sse"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func userOrNil(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return userOrNil(m.Called(ctx, username, email, password))
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return userOrNil(m.Called(ctx, email, password))
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return userOrNil(m.Called(ctx, id))
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return userOrNil(m.Called(ctx, email))
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, username, email string) (*models.User, error) {
	return userOrNil(m.Called(ctx, id, username, email))
}

func (m *MockUserService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	return m.Called(ctx, id, current, next).Error(0)
}

func (m *MockUserService) SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	return userOrNil(m.Called(ctx, id, role))
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) Search(ctx context.Context, keyword string) ([]models.User, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, name, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) List(ctx context.Context) ([]models.Team, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []models.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Team), args.Get(1).([]models.Role), args.Error(2)
}

func (m *MockTeamService) IsUserInTeam(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamService) GetMemberRole(ctx context.Context, teamID, userID uuid.UUID) (models.Role, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockTeamService) GetMembers(ctx context.Context, teamID uuid.UUID, role *models.Role) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID, role)
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) GetAdmins(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return m.Called(ctx, teamID, userID).Error(0)
}

// MockProjectService mocks the ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, teamID uuid.UUID, title, description string, createdBy uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, teamID, title, description, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, id uuid.UUID, title, description string) (*models.Project, error) {
	args := m.Called(ctx, id, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Project, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockProjectService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockProjectService) Search(ctx context.Context, keyword string) ([]models.Project, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).([]models.Project), args.Error(1)
}

// MockTaskService mocks the TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, projectID uuid.UUID, title, description string) (*models.TaskItem, error) {
	args := m.Called(ctx, projectID, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskItem), args.Error(1)
}

func (m *MockTaskService) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskItem), args.Error(1)
}

func (m *MockTaskService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.TaskItem, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]models.TaskItem), args.Error(1)
}

func (m *MockTaskService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.TaskItem), args.Error(1)
}

func (m *MockTaskService) Search(ctx context.Context, keyword string) ([]models.TaskItem, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).([]models.TaskItem), args.Error(1)
}

func (m *MockTaskService) TeamID(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockAssignmentService mocks the AssignmentService
type MockAssignmentService struct {
	mock.Mock
}

func assignmentOrNil(args mock.Arguments) (*models.TaskAssignment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskAssignment), args.Error(1)
}

func (m *MockAssignmentService) AssignTask(ctx context.Context, taskID, userID, assignerID uuid.UUID, dueDate *time.Time) (*models.TaskAssignment, error) {
	return assignmentOrNil(m.Called(ctx, taskID, userID, assignerID, dueDate))
}

func (m *MockAssignmentService) CompleteTask(ctx context.Context, taskID, userID uuid.UUID) (*models.TaskAssignment, error) {
	return assignmentOrNil(m.Called(ctx, taskID, userID))
}

func (m *MockAssignmentService) ApproveTaskCompletion(ctx context.Context, assignmentID, controllerID uuid.UUID) (*models.TaskAssignment, error) {
	return assignmentOrNil(m.Called(ctx, assignmentID, controllerID))
}

func (m *MockAssignmentService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]models.TaskAssignment, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]models.TaskAssignment), args.Error(1)
}

func (m *MockAssignmentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.TaskAssignment), args.Error(1)
}

func (m *MockAssignmentService) ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.TaskAssignment), args.Error(1)
}

func (m *MockAssignmentService) ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.TaskAssignment), args.Error(1)
}

// MockInvitationService mocks the InvitationService
type MockInvitationService struct {
	mock.Mock
}

func invitationOrNil(args mock.Arguments) (*models.Invitation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) CreateInvitation(ctx context.Context, teamID, invitedUserID, inviterID uuid.UUID) (*models.Invitation, error) {
	return invitationOrNil(m.Called(ctx, teamID, invitedUserID, inviterID))
}

func (m *MockInvitationService) AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error) {
	return invitationOrNil(m.Called(ctx, invitationID, userID))
}

func (m *MockInvitationService) RejectInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error) {
	return invitationOrNil(m.Called(ctx, invitationID, userID))
}

func (m *MockInvitationService) CancelInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error) {
	return invitationOrNil(m.Called(ctx, invitationID, userID))
}

func (m *MockInvitationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	return invitationOrNil(m.Called(ctx, id))
}

func (m *MockInvitationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationService) ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, tokenHash, expiresAt).Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, oldHash, newHash, expiresAt).Error(0)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendTeamInvitation(to, teamName, inviterName, invitationURL string) error {
	return m.Called(to, teamName, inviterName, invitationURL).Error(0)
}

// PublishedEvent is one call recorded by RecordingPublisher.
type PublishedEvent struct {
	TeamID uuid.UUID
	Type   string
	Data   interface{}
}

// RecordingPublisher stores every published event for later assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func (p *RecordingPublisher) Publish(teamID uuid.UUID, eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{TeamID: teamID, Type: eventType, Data: data})
}

func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// MockHub mocks the SSE hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockHub) SubscribeToTeam(clientID string, teamID uuid.UUID) bool {
	return m.Called(clientID, teamID).Bool(0)
}

func (m *MockHub) UnsubscribeFromTeam(clientID string, teamID uuid.UUID) {
	m.Called(clientID, teamID)
}

func (m *MockHub) ClientOwner(clientID string) (uuid.UUID, bool) {
	args := m.Called(clientID)
	return args.Get(0).(uuid.UUID), args.Bool(1)
}
