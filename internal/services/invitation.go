package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/taskmanager-api/internal/apperr"
	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// InvitationService moves invitations from Pending to exactly one of
// Accepted, Rejected or Cancelled. Resolved invitations never reopen.
type InvitationService struct {
	db          *database.DB
	invitations *repository.InvitationRepository
	log         logrus.FieldLogger
}

func NewInvitationService(db *database.DB, log logrus.FieldLogger) *InvitationService {
	return &InvitationService{
		db:          db,
		invitations: repository.NewInvitationRepository(db.Pool),
		log:         log,
	}
}

// CreateInvitation records a pending invitation. The returned invitation has
// Team and Invitee attached.
func (s *InvitationService) CreateInvitation(ctx context.Context, teamID, invitedUserID, inviterID uuid.UUID) (*models.Invitation, error) {
	var invitation *models.Invitation
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		team, err := repository.NewTeamRepository(tx).GetByID(ctx, teamID)
		if err != nil {
			return orNotFound(err, ErrTeamNotFound)
		}

		invitee, err := repository.NewUserRepository(tx).GetByID(ctx, invitedUserID)
		if err != nil {
			return orNotFound(err, ErrUserNotFound)
		}

		member, err := repository.NewMembershipRepository(tx).ExistsByTeamAndUser(ctx, teamID, invitedUserID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if member {
			return ErrAlreadyMember
		}

		invitations := repository.NewInvitationRepository(tx)
		pending, err := invitations.ExistsPending(ctx, teamID, invitedUserID)
		if err != nil {
			return fmt.Errorf("failed to check pending invitations: %w", err)
		}
		if pending {
			return ErrPendingInvitation
		}

		invitation, err = invitations.Insert(ctx, teamID, invitedUserID, inviterID)
		if err != nil {
			return orConflict(err, ErrPendingInvitation)
		}
		invitation.Team = team
		invitation.Invitee = invitee
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"invitation_id": invitation.ID,
		"team_id":       teamID,
		"user_id":       invitedUserID,
		"inviter_id":    inviterID,
	}).Info("invitation created")
	return invitation, nil
}

// AcceptInvitation resolves the invitation and adds the invitee to the team
// as a Worker. Both writes commit together or not at all.
func (s *InvitationService) AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error) {
	return s.resolve(ctx, invitationID, userID, models.InvitationAccepted)
}

func (s *InvitationService) RejectInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error) {
	return s.resolve(ctx, invitationID, userID, models.InvitationRejected)
}

// CancelInvitation withdraws a pending invitation. Only the inviter or a
// global Admin may cancel.
func (s *InvitationService) CancelInvitation(ctx context.Context, invitationID, userID uuid.UUID) (*models.Invitation, error) {
	return s.resolve(ctx, invitationID, userID, models.InvitationCancelled)
}

func (s *InvitationService) resolve(ctx context.Context, invitationID, actorID uuid.UUID, status models.InvitationStatus) (*models.Invitation, error) {
	var invitation *models.Invitation
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		invitations := repository.NewInvitationRepository(tx)

		current, err := invitations.GetForUpdate(ctx, invitationID)
		if err != nil {
			return orNotFound(err, ErrInvitationNotFound)
		}

		owner, denied := current.UserID, ErrNotInvitee
		if status == models.InvitationCancelled {
			owner, denied = current.InviterID, ErrNotInviter
		}
		if actorID != owner {
			if err := requireActForOthers(ctx, repository.NewUserRepository(tx), actorID, denied); err != nil {
				return err
			}
		}
		if current.Status.Terminal() {
			return ErrInvitationResolved
		}

		invitation, err = invitations.UpdateStatus(ctx, invitationID, status)
		if err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}

		if status == models.InvitationAccepted {
			_, err := repository.NewMembershipRepository(tx).Insert(ctx, current.TeamID, current.UserID, models.DefaultMemberRole)
			if err != nil {
				return orConflict(err, ErrAlreadyMember)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"invitation_id": invitationID,
		"team_id":       invitation.TeamID,
		"user_id":       invitation.UserID,
		"actor_id":      actorID,
		"status":        status,
	}).Info("invitation resolved")
	return invitation, nil
}

// requireActForOthers passes when actorID's stored role may act on behalf of
// other users and returns denied otherwise.
func requireActForOthers(ctx context.Context, users *repository.UserRepository, actorID uuid.UUID, denied *apperr.Error) error {
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return denied
		}
		return fmt.Errorf("failed to look up acting user: %w", err)
	}
	if !actor.Role.Can(models.CapActForOthers) {
		return denied
	}
	return nil
}

func (s *InvitationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	invitation, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrInvitationNotFound)
	}
	return invitation, nil
}

func (s *InvitationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	return s.invitations.ListPendingByUser(ctx, userID)
}

func (s *InvitationService) ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error) {
	return s.invitations.ListPendingByTeam(ctx, teamID)
}
