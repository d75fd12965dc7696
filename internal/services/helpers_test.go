package services

import (
	"testing"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var (
	userCols       = []string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}
	teamCols       = []string{"id", "name", "owner_id", "created_at", "updated_at"}
	memberCols     = []string{"id", "team_id", "user_id", "role", "created_at"}
	projectCols    = []string{"id", "team_id", "title", "description", "created_by", "created_at", "updated_at"}
	taskCols       = []string{"id", "project_id", "title", "description", "created_at", "updated_at"}
	invitationCols = []string{"id", "team_id", "user_id", "inviter_id", "status", "created_at", "updated_at"}
	assignmentCols = []string{"id", "task_id", "user_id", "assigned_by", "created_at", "due_date",
		"is_completed", "is_approved_by_controller", "completed_at", "approved_at", "approved_by"}
)

func setupDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface, logrus.FieldLogger, *test.Hook) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	logger, hook := test.NewNullLogger()
	return &database.DB{Pool: mock}, mock, logger, hook
}

func userRows(id uuid.UUID, username string, role models.Role) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userCols).
		AddRow(id, username, username+"@example.com", "hash", role, now, now)
}

func teamRows(id, ownerID uuid.UUID, name string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(teamCols).AddRow(id, name, ownerID, now, now)
}

func memberRows(teamID, userID uuid.UUID, role models.Role) *pgxmock.Rows {
	return pgxmock.NewRows(memberCols).AddRow(uuid.New(), teamID, userID, role, time.Now())
}

func existsRows(exists bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"exists"}).AddRow(exists)
}

func invitationRows(id, teamID, userID, inviterID uuid.UUID, status models.InvitationStatus) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(invitationCols).AddRow(id, teamID, userID, inviterID, status, now, now)
}

type assignmentFixture struct {
	ID, TaskID, UserID, AssignedBy uuid.UUID
	Completed, Approved            bool
	ApprovedBy                     *uuid.UUID
}

func newAssignmentFixture() assignmentFixture {
	return assignmentFixture{ID: uuid.New(), TaskID: uuid.New(), UserID: uuid.New(), AssignedBy: uuid.New()}
}

func (f assignmentFixture) rows() *pgxmock.Rows {
	now := time.Now()
	completedAt, approvedAt := (*time.Time)(nil), (*time.Time)(nil)
	if f.Completed {
		completedAt = &now
	}
	if f.Approved {
		approvedAt = &now
	}
	return pgxmock.NewRows(assignmentCols).AddRow(
		f.ID, f.TaskID, f.UserID, f.AssignedBy, now, (*time.Time)(nil),
		f.Completed, f.Approved, completedAt, approvedAt, f.ApprovedBy,
	)
}
