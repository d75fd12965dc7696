package repository

import (
	"context"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
)

const invitationColumns = `id, team_id, user_id, inviter_id, status, created_at, updated_at`

type InvitationRepository struct {
	q database.Querier
}

func NewInvitationRepository(q database.Querier) *InvitationRepository {
	return &InvitationRepository{q: q}
}

func scanInvitation(row scanner) (*models.Invitation, error) {
	var inv models.Invitation
	if err := row.Scan(&inv.ID, &inv.TeamID, &inv.UserID, &inv.InviterID, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *InvitationRepository) Insert(ctx context.Context, teamID, userID, inviterID uuid.UUID) (*models.Invitation, error) {
	return scanInvitation(r.q.QueryRow(ctx, `
		INSERT INTO invitations (team_id, user_id, inviter_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+invitationColumns,
		teamID, userID, inviterID, models.InvitationPending))
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	return r.get(ctx, id, false)
}

func (r *InvitationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	return r.get(ctx, id, true)
}

func (r *InvitationRepository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.Invitation, error) {
	return scanInvitation(r.q.QueryRow(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations WHERE id = $1`+lockClause(forUpdate), id))
}

func (r *InvitationRepository) ExistsPending(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM invitations WHERE team_id = $1 AND user_id = $2 AND status = $3)
	`, teamID, userID, models.InvitationPending).Scan(&exists)
	return exists, err
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InvitationStatus) (*models.Invitation, error) {
	return scanInvitation(r.q.QueryRow(ctx, `
		UPDATE invitations SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+invitationColumns,
		status, id))
}

// ListPendingByUser returns the user's pending invitations with team and
// inviter attached.
func (r *InvitationRepository) ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.team_id, i.user_id, i.inviter_id, i.status, i.created_at, i.updated_at,
		       t.id, t.name, t.owner_id, t.created_at, t.updated_at,
		       u.id, u.username, u.email, u.role, u.created_at, u.updated_at
		FROM invitations i
		JOIN teams t ON i.team_id = t.id
		JOIN users u ON i.inviter_id = u.id
		WHERE i.user_id = $1 AND i.status = $2
		ORDER BY i.created_at DESC
	`, userID, models.InvitationPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		var team models.Team
		var inviter models.User
		if err := rows.Scan(
			&inv.ID, &inv.TeamID, &inv.UserID, &inv.InviterID, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
			&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
			&inviter.ID, &inviter.Username, &inviter.Email, &inviter.Role, &inviter.CreatedAt, &inviter.UpdatedAt,
		); err != nil {
			return nil, err
		}
		inv.Team = &team
		inv.Inviter = &inviter
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// ListPendingByTeam returns the team's pending invitations with the invitee
// attached.
func (r *InvitationRepository) ListPendingByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.team_id, i.user_id, i.inviter_id, i.status, i.created_at, i.updated_at,
		       u.id, u.username, u.email, u.role, u.created_at, u.updated_at
		FROM invitations i
		JOIN users u ON i.user_id = u.id
		WHERE i.team_id = $1 AND i.status = $2
		ORDER BY i.created_at DESC
	`, teamID, models.InvitationPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		var invitee models.User
		if err := rows.Scan(
			&inv.ID, &inv.TeamID, &inv.UserID, &inv.InviterID, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
			&invitee.ID, &invitee.Username, &invitee.Email, &invitee.Role, &invitee.CreatedAt, &invitee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		inv.Invitee = &invitee
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}
