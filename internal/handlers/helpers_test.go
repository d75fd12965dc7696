package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/taskmanager-api/internal/models"
	"github.com/dimitrije/taskmanager-api/internal/services"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *services.JWTService {
	return services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
}

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

type caller struct {
	ID    uuid.UUID
	Role  models.Role
	token string
}

func newCaller(t *testing.T, jwtSvc *services.JWTService, role models.Role) caller {
	t.Helper()
	id := uuid.New()
	pair, err := jwtSvc.GenerateTokenPair(id, id.String()+"@example.com", role)
	require.NoError(t, err)
	return caller{ID: id, Role: role, token: pair.AccessToken}
}

func do(t *testing.T, app http.Handler, method, path string, body interface{}, who *caller) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if who != nil {
		req.Header.Set("Authorization", "Bearer "+who.token)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
