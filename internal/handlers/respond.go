package handlers

import (
	"errors"

	"github.com/dimitrije/taskmanager-api/internal/apperr"
	"github.com/dimitrije/taskmanager-api/internal/logging"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

// respondError maps a service error onto its HTTP status. Anything without a
// known kind is reported and answered with fallback.
func respondError(c *drift.Context, log logrus.FieldLogger, err error, fallback string) {
	msg := apperr.MessageOf(err, fallback)

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.NotFound(msg)
		return
	case apperr.KindConflict:
		_ = c.JSON(409, map[string]string{"error": msg})
		return
	case apperr.KindPrecondition:
		c.BadRequest(msg)
		return
	case apperr.KindAuthorization:
		c.Forbidden(msg)
		return
	}

	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		c.BadRequest(verr.Error())
	case errors.Is(err, services.ErrInvalidRole):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(err.Error())
	default:
		logging.ReportError(log, "handler", err, logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.InternalServerError(fallback)
	}
}

// bind decodes the body into req and runs its validate tags. On failure the
// response has already been written.
func bind(c *drift.Context, req interface{}) bool {
	if err := c.BindJSON(req); err != nil {
		c.BadRequest("invalid request body")
		return false
	}
	if err := dto.Validate(req); err != nil {
		c.BadRequest(err.Error())
		return false
	}
	return true
}

func paramID(c *drift.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.BadRequest("invalid " + label + " id")
		return uuid.Nil, false
	}
	return id, true
}

// optionalID parses s, falling back to def when s is empty.
func optionalID(s string, def uuid.UUID) uuid.UUID {
	if s == "" {
		return def
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return def
	}
	return id
}

func message(c *drift.Context, status int, msg string, data interface{}) {
	_ = c.JSON(status, dto.MessageResponse{Message: msg, Data: data})
}
