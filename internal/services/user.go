package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db         *database.DB
	users      *repository.UserRepository
	log        logrus.FieldLogger
	bcryptCost int
}

func NewUserService(db *database.DB, log logrus.FieldLogger, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		db:         db,
		users:      repository.NewUserRepository(db.Pool),
		log:        log,
		bcryptCost: bcryptCost,
	}
}

// Register creates a Worker account. Elevated roles are only granted through
// SetRole.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Insert(ctx, strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email)), string(hash), models.RoleWorker)
	if err != nil {
		return nil, orConflict(err, ErrIdentityTaken)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, username, email string) (*models.User, error) {
	user, err := s.users.UpdateProfile(ctx, id, strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrIdentityTaken.Wrap(err)
		}
		return nil, orNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return orNotFound(s.users.UpdatePassword(ctx, id, string(hash)), ErrUserNotFound)
}

func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}

	s.log.WithFields(logrus.Fields{"user_id": id, "role": role}).Info("user role changed")
	return user, nil
}

func (s *UserService) SetRoleByEmail(ctx context.Context, email string, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if err := s.users.UpdateRoleByEmail(ctx, email, role); err != nil {
		return orNotFound(err, ErrUserNotFound)
	}

	s.log.WithFields(logrus.Fields{"email": email, "role": role}).Info("user role changed")
	return nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.users.ListByRole(ctx, role)
}

func (s *UserService) Search(ctx context.Context, keyword string) ([]models.User, error) {
	return s.users.Search(ctx, strings.TrimSpace(keyword))
}

func (s *UserService) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.User, error) {
	return s.users.ListByTeam(ctx, teamID)
}
