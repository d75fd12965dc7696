package services

import (
	"errors"

	"github.com/dimitrije/taskmanager-api/internal/apperr"
	"github.com/dimitrije/taskmanager-api/internal/repository"
)

var (
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrTeamNotFound       = apperr.NotFound("team not found")
	ErrProjectNotFound    = apperr.NotFound("project not found")
	ErrTaskNotFound       = apperr.NotFound("task not found")
	ErrAssignmentNotFound = apperr.NotFound("assignment not found")
	ErrInvitationNotFound = apperr.NotFound("invitation not found")
	ErrMemberNotFound     = apperr.NotFound("membership not found")
	ErrAssignerNotFound   = apperr.NotFound("assigner not found")

	ErrAlreadyAssigned    = apperr.Conflict("already assigned")
	ErrAlreadyCompleted   = apperr.Conflict("already completed")
	ErrAlreadyApproved    = apperr.Conflict("already approved")
	ErrNotYetCompleted    = apperr.Precondition("not yet completed")
	ErrControllerRequired = apperr.Authorization("controller role required")

	ErrAlreadyMember      = apperr.Conflict("user is already a team member")
	ErrPendingInvitation  = apperr.Conflict("a pending invitation already exists")
	ErrInvitationResolved = apperr.Conflict("invitation is no longer pending")
	ErrNotInvitee         = apperr.Authorization("only the invited user can respond to this invitation")
	ErrNotInviter         = apperr.Authorization("only the inviter can cancel this invitation")
	ErrLastAdmin          = apperr.Precondition("cannot remove the last team admin")

	ErrIdentityTaken      = apperr.Conflict("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// orNotFound replaces a repository miss with the given domain error and
// passes any other error through.
func orNotFound(err error, notFound *apperr.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}

func orConflict(err error, conflict *apperr.Error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return conflict.Wrap(err)
	}
	return err
}
