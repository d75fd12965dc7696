package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create(t *testing.T) {
	db, mock, logger, _ := setupDB(t)
	svc := NewProjectService(db, logger)
	teamID, projectID, userID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnRows(teamRows(teamID, userID, "Alpha"))
	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs(teamID, "Launch", "first release", userID).
		WillReturnRows(pgxmock.NewRows(projectCols).
			AddRow(projectID, teamID, "Launch", "first release", userID, now, now))

	project, err := svc.Create(context.Background(), teamID, " Launch ", "first release", userID)

	require.NoError(t, err)
	assert.Equal(t, projectID, project.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Create_UnknownTeam(t *testing.T) {
	db, mock, logger, _ := setupDB(t)
	svc := NewProjectService(db, logger)
	teamID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Create(context.Background(), teamID, "Launch", "", uuid.New())

	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Search(t *testing.T) {
	db, mock, logger, _ := setupDB(t)
	svc := NewProjectService(db, logger)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM projects\s+WHERE title ILIKE`).
		WithArgs("%launch%").
		WillReturnRows(pgxmock.NewRows(projectCols).
			AddRow(uuid.New(), uuid.New(), "Launch", "", uuid.New(), now, now))

	projects, err := svc.Search(context.Background(), "launch")

	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_TeamID(t *testing.T) {
	db, mock, logger, _ := setupDB(t)
	svc := NewProjectService(db, logger)
	teamID, projectID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id`).
		WithArgs(projectID).
		WillReturnRows(pgxmock.NewRows(projectCols).
			AddRow(projectID, teamID, "Launch", "", uuid.New(), now, now))

	got, err := svc.TeamID(context.Background(), projectID)

	require.NoError(t, err)
	assert.Equal(t, teamID, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
