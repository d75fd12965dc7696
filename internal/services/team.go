package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

type TeamService struct {
	db          *database.DB
	teams       *repository.TeamRepository
	memberships *repository.MembershipRepository
	log         logrus.FieldLogger
}

func NewTeamService(db *database.DB, log logrus.FieldLogger) *TeamService {
	return &TeamService{
		db:          db,
		teams:       repository.NewTeamRepository(db.Pool),
		memberships: repository.NewMembershipRepository(db.Pool),
		log:         log,
	}
}

// Create inserts the team and its creator's Admin membership together.
func (s *TeamService) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		team, err = repository.NewTeamRepository(tx).Insert(ctx, name, ownerID)
		if err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		if _, err := repository.NewMembershipRepository(tx).Insert(ctx, team.ID, ownerID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to add owner as admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"team_id": team.ID, "user_id": ownerID}).Info("team created")
	return team, nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, orNotFound(err, ErrTeamNotFound)
	}
	return team, nil
}

func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	return s.teams.List(ctx)
}

func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []models.Role, error) {
	return s.teams.ListByUser(ctx, userID)
}

func (s *TeamService) IsUserInTeam(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	return s.memberships.ExistsByTeamAndUser(ctx, teamID, userID)
}

// GetMemberRole returns the role userID holds in teamID.
func (s *TeamService) GetMemberRole(ctx context.Context, teamID, userID uuid.UUID) (models.Role, error) {
	member, err := s.memberships.FindByTeamAndUser(ctx, teamID, userID)
	if err != nil {
		return "", orNotFound(err, ErrMemberNotFound)
	}
	return member.Role, nil
}

// GetMembers lists the team's members, optionally only those holding role.
func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID, role *models.Role) ([]models.TeamMember, error) {
	return s.memberships.ListByTeam(ctx, teamID, role)
}

func (s *TeamService) GetAdmins(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	admin := models.RoleAdmin
	return s.memberships.ListByTeam(ctx, teamID, &admin)
}

// RemoveMember deletes the membership. The admin rows of the team are locked
// first so two concurrent removals cannot both pass the last-admin check.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		members := repository.NewMembershipRepository(tx)

		admins, err := members.LockUsersWithRole(ctx, teamID, models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to lock team admins: %w", err)
		}
		if len(admins) == 1 && admins[0] == userID {
			return ErrLastAdmin
		}

		return orNotFound(members.Delete(ctx, teamID, userID), ErrMemberNotFound)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"team_id": teamID, "user_id": userID}).Info("member removed")
	return nil
}

// RemoveUserFromAllTeams drops every membership of userID and returns how
// many were removed.
func (s *TeamService) RemoveUserFromAllTeams(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.memberships.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "count": n}).Info("user removed from all teams")
	return n, nil
}
