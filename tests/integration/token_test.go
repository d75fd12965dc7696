package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/dimitrije/taskmanager-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_Integration_StoreAndValidate(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB, discardLogger())
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	tokenHash := services.HashToken("my-refresh-token")

	require.NoError(t, svc.StoreRefreshToken(ctx, user.ID, tokenHash, time.Now().Add(24*time.Hour)))

	userID, err := svc.ValidateRefreshToken(ctx, tokenHash)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenService_Integration_ValidateExpired(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB, discardLogger())
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	tokenHash := services.HashToken("expired-token")
	fixtures.CreateRefreshToken(t, user.ID, tokenHash, time.Now().Add(-time.Hour))

	_, err := svc.ValidateRefreshToken(ctx, tokenHash)
	assert.ErrorIs(t, err, services.ErrRefreshTokenInvalid)

	n, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTokenService_Integration_RotateRejectsReplay(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB, discardLogger())
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	oldHash := services.HashToken("old")
	newHash := services.HashToken("new")
	expiresAt := time.Now().Add(24 * time.Hour)
	require.NoError(t, svc.StoreRefreshToken(ctx, user.ID, oldHash, expiresAt))

	require.NoError(t, svc.RotateRefreshToken(ctx, user.ID, oldHash, newHash, expiresAt))

	err := svc.RotateRefreshToken(ctx, user.ID, oldHash, services.HashToken("newer"), expiresAt)
	assert.ErrorIs(t, err, services.ErrRefreshTokenInvalid)

	userID, err := svc.ValidateRefreshToken(ctx, newHash)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenService_Integration_RevokeAll(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB, discardLogger())
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	expiresAt := time.Now().Add(24 * time.Hour)
	for _, raw := range []string{"a", "b"} {
		require.NoError(t, svc.StoreRefreshToken(ctx, user.ID, services.HashToken(raw), expiresAt))
	}

	require.NoError(t, svc.RevokeAllUserTokens(ctx, user.ID))

	for _, raw := range []string{"a", "b"} {
		_, err := svc.ValidateRefreshToken(ctx, services.HashToken(raw))
		assert.ErrorIs(t, err, services.ErrRefreshTokenInvalid)
	}
}
