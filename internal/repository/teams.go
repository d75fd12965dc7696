package repository

import (
	"context"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
)

const teamColumns = `id, name, owner_id, created_at, updated_at`

type TeamRepository struct {
	q database.Querier
}

func NewTeamRepository(q database.Querier) *TeamRepository {
	return &TeamRepository{q: q}
}

func scanTeam(row scanner) (*models.Team, error) {
	var team models.Team
	if err := row.Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

func (r *TeamRepository) Insert(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error) {
	return scanTeam(r.q.QueryRow(ctx, `
		INSERT INTO teams (name, owner_id)
		VALUES ($1, $2)
		RETURNING `+teamColumns,
		name, ownerID))
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return scanTeam(r.q.QueryRow(ctx, `
		SELECT `+teamColumns+`
		FROM teams WHERE id = $1
	`, id))
}

func (r *TeamRepository) List(ctx context.Context) ([]models.Team, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+teamColumns+`
		FROM teams ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// ListByUser returns the teams userID belongs to, paired with the in-team role.
func (r *TeamRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Team, []models.Role, error) {
	rows, err := r.q.Query(ctx, `
		SELECT t.id, t.name, t.owner_id, t.created_at, t.updated_at, tm.role
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	roles := []models.Role{}
	for rows.Next() {
		var team models.Team
		var role models.Role
		if err := rows.Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt, &role); err != nil {
			return nil, nil, err
		}
		teams = append(teams, team)
		roles = append(roles, role)
	}
	return teams, roles, rows.Err()
}
