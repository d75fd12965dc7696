package services

import (
	"context"
	"strings"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProjectService struct {
	projects *repository.ProjectRepository
	teams    *repository.TeamRepository
	log      logrus.FieldLogger
}

func NewProjectService(db *database.DB, log logrus.FieldLogger) *ProjectService {
	return &ProjectService{
		projects: repository.NewProjectRepository(db.Pool),
		teams:    repository.NewTeamRepository(db.Pool),
		log:      log,
	}
}

func (s *ProjectService) Create(ctx context.Context, teamID uuid.UUID, title, description string, createdBy uuid.UUID) (*models.Project, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, orNotFound(err, ErrTeamNotFound)
	}

	project, err := s.projects.Insert(ctx, teamID, strings.TrimSpace(title), description, createdBy)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"project_id": project.ID, "team_id": teamID}).Info("project created")
	return project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrProjectNotFound)
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, title, description string) (*models.Project, error) {
	project, err := s.projects.Update(ctx, id, strings.TrimSpace(title), description)
	if err != nil {
		return nil, orNotFound(err, ErrProjectNotFound)
	}
	return project, nil
}

func (s *ProjectService) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Project, error) {
	return s.projects.ListByTeam(ctx, teamID)
}

func (s *ProjectService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

func (s *ProjectService) Search(ctx context.Context, keyword string) ([]models.Project, error) {
	return s.projects.Search(ctx, strings.TrimSpace(keyword))
}

// TeamID returns the team owning the project.
func (s *ProjectService) TeamID(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error) {
	project, err := s.GetByID(ctx, projectID)
	if err != nil {
		return uuid.Nil, err
	}
	return project.TeamID, nil
}
