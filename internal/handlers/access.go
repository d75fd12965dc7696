package handlers

import (
	"context"
	"errors"

	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

// teamAccess answers whether a caller may read or manage a team's data.
// Global roles with CapViewAll see every team; everyone else needs a
// membership row.
type teamAccess struct {
	teams TeamServiceInterface
}

func (a teamAccess) canView(ctx context.Context, teamID, userID uuid.UUID, role models.Role) (bool, error) {
	if role.Can(models.CapViewAll) {
		return true, nil
	}
	return a.teams.IsUserInTeam(ctx, teamID, userID)
}

// canManage requires a team role with CapManageTeam, or a global role that
// may act for others.
func (a teamAccess) canManage(ctx context.Context, teamID, userID uuid.UUID, role models.Role) (bool, error) {
	if role.Can(models.CapActForOthers) {
		return true, nil
	}
	teamRole, err := a.teams.GetMemberRole(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return teamRole.Can(models.CapManageTeam), nil
}

// requireView writes a 404 with missing when the caller may not see teamID,
// so ids are not confirmed to outsiders.
func (a teamAccess) requireView(c *drift.Context, log logrus.FieldLogger, teamID uuid.UUID, missing string) bool {
	allowed, err := a.canView(c.Request.Context(), teamID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		respondError(c, log, err, "failed to check team access")
		return false
	}
	if !allowed {
		c.NotFound(missing)
		return false
	}
	return true
}

// requireManage writes a 403 when the caller may not manage teamID.
func (a teamAccess) requireManage(c *drift.Context, log logrus.FieldLogger, teamID uuid.UUID, denied string) bool {
	allowed, err := a.canManage(c.Request.Context(), teamID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		respondError(c, log, err, "failed to check team access")
		return false
	}
	if !allowed {
		c.Forbidden(denied)
		return false
	}
	return true
}
