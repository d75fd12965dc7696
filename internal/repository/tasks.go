package repository

import (
	"context"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, project_id, title, description, created_at, updated_at`

type TaskRepository struct {
	q database.Querier
}

func NewTaskRepository(q database.Querier) *TaskRepository {
	return &TaskRepository{q: q}
}

func scanTask(row scanner) (*models.TaskItem, error) {
	var t models.TaskItem
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func collectTasks(rows pgx.Rows, err error) ([]models.TaskItem, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.TaskItem{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Insert(ctx context.Context, projectID uuid.UUID, title, description string) (*models.TaskItem, error) {
	return scanTask(r.q.QueryRow(ctx, `
		INSERT INTO tasks (project_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING `+taskColumns,
		projectID, title, description))
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskItem, error) {
	return scanTask(r.q.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE id = $1
	`, id))
}

func (r *TaskRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *TaskRepository) List(ctx context.Context) ([]models.TaskItem, error) {
	return collectTasks(r.q.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks ORDER BY created_at DESC
	`))
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.TaskItem, error) {
	return collectTasks(r.q.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE project_id = $1
		ORDER BY created_at
	`, projectID))
}

// ListByUser returns the tasks assigned to userID.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskItem, error) {
	return collectTasks(r.q.Query(ctx, `
		SELECT t.id, t.project_id, t.title, t.description, t.created_at, t.updated_at
		FROM tasks t
		JOIN task_assignments ta ON ta.task_id = t.id
		WHERE ta.user_id = $1
		ORDER BY ta.created_at DESC
	`, userID))
}

func (r *TaskRepository) Search(ctx context.Context, keyword string) ([]models.TaskItem, error) {
	return collectTasks(r.q.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY title
	`, likePattern(keyword)))
}

// TeamID resolves the team owning a task through its project.
func (r *TaskRepository) TeamID(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	var teamID uuid.UUID
	err := r.q.QueryRow(ctx, `
		SELECT p.team_id FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1
	`, taskID).Scan(&teamID)
	if err != nil {
		return uuid.Nil, translate(err)
	}
	return teamID, nil
}
