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

type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	log      logrus.FieldLogger
}

func NewTaskService(db *database.DB, log logrus.FieldLogger) *TaskService {
	return &TaskService{
		tasks:    repository.NewTaskRepository(db.Pool),
		projects: repository.NewProjectRepository(db.Pool),
		log:      log,
	}
}

func (s *TaskService) Create(ctx context.Context, projectID uuid.UUID, title, description string) (*models.TaskItem, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, orNotFound(err, ErrProjectNotFound)
	}

	task, err := s.tasks.Insert(ctx, projectID, strings.TrimSpace(title), description)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": task.ID, "project_id": projectID}).Info("task created")
	return task, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskItem, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrTaskNotFound)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]models.TaskItem, error) {
	return s.tasks.List(ctx)
}

func (s *TaskService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.TaskItem, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *TaskService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskItem, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *TaskService) Search(ctx context.Context, keyword string) ([]models.TaskItem, error) {
	return s.tasks.Search(ctx, strings.TrimSpace(keyword))
}

// TeamID returns the team owning the task's project.
func (s *TaskService) TeamID(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	teamID, err := s.tasks.TeamID(ctx, taskID)
	if err != nil {
		return uuid.Nil, orNotFound(err, ErrTaskNotFound)
	}
	return teamID, nil
}
