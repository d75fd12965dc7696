package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/database"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// AssignmentService drives a task assignment through
// assigned -> completed -> approved. Every transition re-reads the stored
// row inside its own transaction, and none of them can be undone.
type AssignmentService struct {
	db          *database.DB
	assignments *repository.AssignmentRepository
	log         logrus.FieldLogger
}

func NewAssignmentService(db *database.DB, log logrus.FieldLogger) *AssignmentService {
	return &AssignmentService{
		db:          db,
		assignments: repository.NewAssignmentRepository(db.Pool),
		log:         log,
	}
}

func (s *AssignmentService) AssignTask(ctx context.Context, taskID, userID, assignerID uuid.UUID, dueDate *time.Time) (*models.TaskAssignment, error) {
	var assignment *models.TaskAssignment
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		exists, err := repository.NewTaskRepository(tx).ExistsByID(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to look up task: %w", err)
		}
		if !exists {
			return ErrTaskNotFound
		}

		users := repository.NewUserRepository(tx)
		if _, err := users.GetByID(ctx, userID); err != nil {
			return orNotFound(err, ErrUserNotFound)
		}
		if assignerID != userID {
			if _, err := users.GetByID(ctx, assignerID); err != nil {
				return orNotFound(err, ErrAssignerNotFound)
			}
		}

		assignments := repository.NewAssignmentRepository(tx)
		assigned, err := assignments.ExistsByTaskAndUser(ctx, taskID, userID)
		if err != nil {
			return fmt.Errorf("failed to look up assignment: %w", err)
		}
		if assigned {
			return ErrAlreadyAssigned
		}

		assignment, err = assignments.Insert(ctx, taskID, userID, assignerID, dueDate)
		return orConflict(err, ErrAlreadyAssigned)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"task_id":       taskID,
		"user_id":       userID,
		"assigned_by":   assignerID,
	}).Info("task assigned")
	return assignment, nil
}

func (s *AssignmentService) CompleteTask(ctx context.Context, taskID, userID uuid.UUID) (*models.TaskAssignment, error) {
	var assignment *models.TaskAssignment
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		assignments := repository.NewAssignmentRepository(tx)

		current, err := assignments.FindByTaskAndUser(ctx, taskID, userID, true)
		if err != nil {
			return orNotFound(err, ErrAssignmentNotFound)
		}
		if current.IsCompleted {
			return ErrAlreadyCompleted
		}

		assignment, err = assignments.MarkCompleted(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"task_id":       taskID,
		"user_id":       userID,
	}).Info("task completed")
	return assignment, nil
}

// ApproveTaskCompletion marks a completed assignment approved. controllerID
// must name a user whose stored role can approve tasks.
func (s *AssignmentService) ApproveTaskCompletion(ctx context.Context, assignmentID, controllerID uuid.UUID) (*models.TaskAssignment, error) {
	var assignment *models.TaskAssignment
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		assignments := repository.NewAssignmentRepository(tx)

		current, err := assignments.GetForUpdate(ctx, assignmentID)
		if err != nil {
			return orNotFound(err, ErrAssignmentNotFound)
		}
		if !current.IsCompleted {
			return ErrNotYetCompleted
		}
		if current.IsApprovedByController {
			return ErrAlreadyApproved
		}

		controller, err := repository.NewUserRepository(tx).GetByID(ctx, controllerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrControllerRequired
			}
			return fmt.Errorf("failed to look up controller: %w", err)
		}
		if !controller.Role.Can(models.CapApproveTasks) {
			return ErrControllerRequired
		}

		assignment, err = assignments.MarkApproved(ctx, assignmentID, controllerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"assignment_id": assignmentID,
		"task_id":       assignment.TaskID,
		"approved_by":   controllerID,
	}).Info("task completion approved")
	return assignment, nil
}

func (s *AssignmentService) GetByID(ctx context.Context, id uuid.UUID) (*models.TaskAssignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrAssignmentNotFound)
	}
	return assignment, nil
}

func (s *AssignmentService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]models.TaskAssignment, error) {
	return s.assignments.ListByTask(ctx, taskID)
}

func (s *AssignmentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error) {
	return s.assignments.ListByUser(ctx, userID, nil)
}

func (s *AssignmentService) ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error) {
	completed := true
	return s.assignments.ListByUser(ctx, userID, &completed)
}

func (s *AssignmentService) ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]models.TaskAssignment, error) {
	completed := false
	return s.assignments.ListByUser(ctx, userID, &completed)
}
