package repository

import (
	"context"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
)

type MembershipRepository struct {
	q database.Querier
}

func NewMembershipRepository(q database.Querier) *MembershipRepository {
	return &MembershipRepository{q: q}
}

func (r *MembershipRepository) Insert(ctx context.Context, teamID, userID uuid.UUID, role models.Role) (*models.TeamMember, error) {
	var m models.TeamMember
	err := r.q.QueryRow(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, team_id, user_id, role, created_at
	`, teamID, userID, role).Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MembershipRepository) FindByTeamAndUser(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	var m models.TeamMember
	err := r.q.QueryRow(ctx, `
		SELECT id, team_id, user_id, role, created_at
		FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID).Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MembershipRepository) ExistsByTeamAndUser(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	return exists, err
}

// ListByTeam returns members with their user rows. A nil role lists everyone.
func (r *MembershipRepository) ListByTeam(ctx context.Context, teamID uuid.UUID, role *models.Role) ([]models.TeamMember, error) {
	rows, err := r.q.Query(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.created_at,
		       u.id, u.username, u.email, u.role, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1 AND ($2::text IS NULL OR tm.role = $2::text)
		ORDER BY tm.created_at
	`, teamID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.CreatedAt,
			&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, rows.Err()
}

// LockUsersWithRole locks the membership rows holding role in teamID and
// returns their user ids.
func (r *MembershipRepository) LockUsersWithRole(ctx context.Context, teamID uuid.UUID, role models.Role) ([]uuid.UUID, error) {
	rows, err := r.q.Query(ctx, `
		SELECT user_id FROM team_members
		WHERE team_id = $1 AND role = $2
		FOR UPDATE
	`, teamID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *MembershipRepository) Delete(ctx context.Context, teamID, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MembershipRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM team_members WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
