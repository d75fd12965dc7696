package repository

import (
	"context"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

type UserRepository struct {
	q database.Querier
}

func NewUserRepository(q database.Querier) *UserRepository {
	return &UserRepository{q: q}
}

func scanUser(row scanner) (*models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func collectUsers(rows pgx.Rows, err error) ([]models.User, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE username = $1
	`, username))
}

func (r *UserRepository) Insert(ctx context.Context, username, email, passwordHash string, role models.Role) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		username, email, passwordHash, role))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `
		UPDATE users SET username = $1, email = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+userColumns,
		username, email, id))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns,
		role, id))
}

func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email string, role models.Role) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE LOWER(email) = LOWER($2)
	`, role, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return collectUsers(r.q.Query(ctx, `
		SELECT `+userColumns+`
		FROM users ORDER BY username
	`))
}

func (r *UserRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return collectUsers(r.q.Query(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE role = $1 ORDER BY username
	`, role))
}

func (r *UserRepository) Search(ctx context.Context, keyword string) ([]models.User, error) {
	return collectUsers(r.q.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE $1 OR email ILIKE $1
		ORDER BY username
	`, likePattern(keyword)))
}

func (r *UserRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.User, error) {
	return collectUsers(r.q.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.role, u.created_at, u.updated_at
		FROM users u
		JOIN team_members tm ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY u.username
	`, teamID))
}
