package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/middleware"
	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/dimitrije/taskmanager-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	userService  UserServiceInterface
	tokenService TokenServiceInterface
	jwtService   JWTServiceInterface
	limiter      LoginLimiterInterface
	log          logrus.FieldLogger
}

func NewAuthHandler(
	userService UserServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
	limiter LoginLimiterInterface,
	log logrus.FieldLogger,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		jwtService:   jwtService,
		limiter:      limiter,
		log:          log,
	}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if !bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err, "failed to register")
		return
	}

	resp, err := h.issueTokens(ctx, user)
	if err != nil {
		respondError(c, h.log, err, "failed to generate tokens")
		return
	}
	_ = c.JSON(201, resp)
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if !bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if !h.limiter.Allowed(ctx, req.Email) {
		retry := int(math.Ceil(h.limiter.RetryAfter().Seconds()))
		c.Response.Header().Set("Retry-After", strconv.Itoa(retry))
		_ = c.JSON(429, map[string]string{"error": "too many login attempts, try again later"})
		return
	}

	user, err := h.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.limiter.RecordFailure(ctx, req.Email)
			c.Unauthorized("invalid email or password")
			return
		}
		respondError(c, h.log, err, "failed to log in")
		return
	}
	h.limiter.Reset(ctx, req.Email)

	resp, err := h.issueTokens(ctx, user)
	if err != nil {
		respondError(c, h.log, err, "failed to generate tokens")
		return
	}
	_ = c.JSON(200, resp)
}

func (h *AuthHandler) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	tokenPair, err := h.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(ctx, user.ID, services.HashToken(tokenPair.RefreshToken), expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         toUserResponse(user),
	}, nil
}

// RefreshToken exchanges a stored refresh token for a new pair. The old
// token is consumed in the same transaction that stores the new one, so a
// replayed token is rejected.
func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if !bind(c, &req) {
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	ctx := c.Request.Context()
	tokenHash := services.HashToken(req.RefreshToken)

	storedUserID, err := h.tokenService.ValidateRefreshToken(ctx, tokenHash)
	if err != nil || storedUserID != userID {
		c.Unauthorized("refresh token not found or expired")
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(c, h.log, err, "failed to generate tokens")
		return
	}

	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	err = h.tokenService.RotateRefreshToken(ctx, user.ID, tokenHash, services.HashToken(tokenPair.RefreshToken), expiresAt)
	if err != nil {
		if errors.Is(err, services.ErrRefreshTokenInvalid) {
			c.Unauthorized("refresh token not found or expired")
			return
		}
		respondError(c, h.log, err, "failed to store refresh token")
		return
	}

	_ = c.JSON(200, dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		if err := h.tokenService.RevokeRefreshToken(c.Request.Context(), services.HashToken(req.RefreshToken)); err != nil {
			h.log.WithError(err).Warn("failed to revoke refresh token")
		}
	}

	message(c, 200, "logged out", nil)
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.tokenService.RevokeAllUserTokens(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err, "failed to revoke tokens")
		return
	}

	message(c, 200, "all sessions logged out", nil)
}
