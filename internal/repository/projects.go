package repository

import (
	"context"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, team_id, title, description, created_by, created_at, updated_at`

type ProjectRepository struct {
	q database.Querier
}

func NewProjectRepository(q database.Querier) *ProjectRepository {
	return &ProjectRepository{q: q}
}

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(&p.ID, &p.TeamID, &p.Title, &p.Description, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows, err error) ([]models.Project, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Insert(ctx context.Context, teamID uuid.UUID, title, description string, createdBy uuid.UUID) (*models.Project, error) {
	return scanProject(r.q.QueryRow(ctx, `
		INSERT INTO projects (team_id, title, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING `+projectColumns,
		teamID, title, description, createdBy))
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return scanProject(r.q.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE id = $1
	`, id))
}

func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, title, description string) (*models.Project, error) {
	return scanProject(r.q.QueryRow(ctx, `
		UPDATE projects SET title = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+projectColumns,
		title, description, id))
}

func (r *ProjectRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Project, error) {
	return collectProjects(r.q.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE team_id = $1
		ORDER BY created_at DESC
	`, teamID))
}

// ListByUser returns projects of every team the user belongs to.
func (r *ProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	return collectProjects(r.q.Query(ctx, `
		SELECT p.id, p.team_id, p.title, p.description, p.created_by, p.created_at, p.updated_at
		FROM projects p
		JOIN team_members tm ON tm.team_id = p.team_id
		WHERE tm.user_id = $1
		ORDER BY p.created_at DESC
	`, userID))
}

func (r *ProjectRepository) Search(ctx context.Context, keyword string) ([]models.Project, error) {
	return collectProjects(r.q.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY title
	`, likePattern(keyword)))
}
