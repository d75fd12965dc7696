package handlers

import (
	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	userService UserServiceInterface
	log         logrus.FieldLogger
}

func NewUserHandler(userService UserServiceInterface, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to get user")
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, req.Username, req.Email)
	if err != nil {
		respondError(c, h.log, err, "failed to update user")
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}

func (h *UserHandler) ChangePassword(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.ChangePasswordRequest
	if !bind(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err, "failed to change password")
		return
	}

	message(c, 200, "password changed", nil)
}

// List returns the user directory, filtered by ?role= or searched by ?q=.
func (h *UserHandler) List(c *drift.Context) {
	ctx := c.Request.Context()

	var (
		users []models.User
		err   error
	)
	switch {
	case c.QueryParam("role") != "":
		role, perr := models.ParseRole(c.QueryParam("role"))
		if perr != nil {
			c.BadRequest("invalid role")
			return
		}
		users, err = h.userService.ListByRole(ctx, role)
	case c.QueryParam("q") != "":
		users, err = h.userService.Search(ctx, c.QueryParam("q"))
	default:
		users, err = h.userService.List(ctx)
	}
	if err != nil {
		respondError(c, h.log, err, "failed to list users")
		return
	}

	_ = c.JSON(200, toUserResponses(users))
}

func (h *UserHandler) Get(c *drift.Context) {
	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to get user")
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}

func (h *UserHandler) SetRole(c *drift.Context) {
	if !middleware.GetUserRole(c).Can(models.CapManageRoles) {
		c.Forbidden("insufficient role")
		return
	}

	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	var req dto.SetRoleRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.userService.SetRole(c.Request.Context(), id, models.Role(req.Role))
	if err != nil {
		respondError(c, h.log, err, "failed to change role")
		return
	}

	h.log.WithFields(logrus.Fields{
		"user_id":  id,
		"role":     user.Role,
		"actor_id": middleware.GetUserID(c),
	}).Info("role granted")
	_ = c.JSON(200, toUserResponse(user))
}
