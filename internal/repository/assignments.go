package repository

import (
	"context"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const assignmentColumns = `id, task_id, user_id, assigned_by, created_at, due_date,
		is_completed, is_approved_by_controller, completed_at, approved_at, approved_by`

type AssignmentRepository struct {
	q database.Querier
}

func NewAssignmentRepository(q database.Querier) *AssignmentRepository {
	return &AssignmentRepository{q: q}
}

func assignmentDest(a *models.TaskAssignment) []any {
	return []any{
		&a.ID, &a.TaskID, &a.UserID, &a.AssignedBy, &a.CreatedAt, &a.DueDate,
		&a.IsCompleted, &a.IsApprovedByController, &a.CompletedAt, &a.ApprovedAt, &a.ApprovedBy,
	}
}

func scanAssignment(row scanner) (*models.TaskAssignment, error) {
	var a models.TaskAssignment
	if err := row.Scan(assignmentDest(&a)...); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AssignmentRepository) Insert(ctx context.Context, taskID, userID, assignedBy uuid.UUID, dueDate *time.Time) (*models.TaskAssignment, error) {
	return scanAssignment(r.q.QueryRow(ctx, `
		INSERT INTO task_assignments (task_id, user_id, assigned_by, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING `+assignmentColumns,
		taskID, userID, assignedBy, dueDate))
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskAssignment, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate reads the assignment and holds a row lock until the
// surrounding transaction ends.
func (r *AssignmentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.TaskAssignment, error) {
	return r.get(ctx, id, true)
}

func (r *AssignmentRepository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.TaskAssignment, error) {
	return scanAssignment(r.q.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM task_assignments WHERE id = $1`+lockClause(forUpdate), id))
}

func (r *AssignmentRepository) FindByTaskAndUser(ctx context.Context, taskID, userID uuid.UUID, forUpdate bool) (*models.TaskAssignment, error) {
	return scanAssignment(r.q.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM task_assignments WHERE task_id = $1 AND user_id = $2`+lockClause(forUpdate),
		taskID, userID))
}

func (r *AssignmentRepository) ExistsByTaskAndUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM task_assignments WHERE task_id = $1 AND user_id = $2)
	`, taskID, userID).Scan(&exists)
	return exists, err
}

func (r *AssignmentRepository) MarkCompleted(ctx context.Context, id uuid.UUID) (*models.TaskAssignment, error) {
	return scanAssignment(r.q.QueryRow(ctx, `
		UPDATE task_assignments SET is_completed = TRUE, completed_at = NOW()
		WHERE id = $1
		RETURNING `+assignmentColumns,
		id))
}

func (r *AssignmentRepository) MarkApproved(ctx context.Context, id, approvedBy uuid.UUID) (*models.TaskAssignment, error) {
	return scanAssignment(r.q.QueryRow(ctx, `
		UPDATE task_assignments SET is_approved_by_controller = TRUE, approved_at = NOW(), approved_by = $1
		WHERE id = $2
		RETURNING `+assignmentColumns,
		approvedBy, id))
}

// ListByTask returns the task's assignments with the assignee attached.
func (r *AssignmentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]models.TaskAssignment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ta.id, ta.task_id, ta.user_id, ta.assigned_by, ta.created_at, ta.due_date,
		       ta.is_completed, ta.is_approved_by_controller, ta.completed_at, ta.approved_at, ta.approved_by,
		       u.id, u.username, u.email, u.role, u.created_at, u.updated_at
		FROM task_assignments ta
		JOIN users u ON ta.user_id = u.id
		WHERE ta.task_id = $1
		ORDER BY ta.created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []models.TaskAssignment{}
	for rows.Next() {
		var a models.TaskAssignment
		var u models.User
		dest := append(assignmentDest(&a), &u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		a.User = &u
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// ListByUser returns the user's assignments with the task attached. A nil
// completed lists all of them.
func (r *AssignmentRepository) ListByUser(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.TaskAssignment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ta.id, ta.task_id, ta.user_id, ta.assigned_by, ta.created_at, ta.due_date,
		       ta.is_completed, ta.is_approved_by_controller, ta.completed_at, ta.approved_at, ta.approved_by,
		       t.id, t.project_id, t.title, t.description, t.created_at, t.updated_at
		FROM task_assignments ta
		JOIN tasks t ON ta.task_id = t.id
		WHERE ta.user_id = $1 AND ($2::boolean IS NULL OR ta.is_completed = $2::boolean)
		ORDER BY ta.created_at DESC
	`, userID, completed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWithTask(rows)
}

func collectWithTask(rows pgx.Rows) ([]models.TaskAssignment, error) {
	assignments := []models.TaskAssignment{}
	for rows.Next() {
		var a models.TaskAssignment
		var t models.TaskItem
		dest := append(assignmentDest(&a), &t.ID, &t.ProjectID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		a.Task = &t
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
