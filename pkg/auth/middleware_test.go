package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/jsonutil"
	"github.com/zipatlas/zipatlas-api/pkg/models"
)

type mockAuthService struct {
	userID int64
}

func (m *mockAuthService) Login(ctx context.Context, email, password jsonutil.String) (*models.User, string, error) {
	return nil, "", apperrors.ErrInvalidCredentials
}
func (m *mockAuthService) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "valid-token" {
		return m.userID, nil
	}
	return 0, apperrors.ErrNotFound
}

func requireAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool, int64) {
	t.Helper()

	m := NewMiddleware(&mockAuthService{userID: 42}, zap.NewNop())

	called := false
	var gotUserID int64
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/counties", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec, called, gotUserID
}

func TestRequireAuth_ValidToken(t *testing.T) {
	rec, called, userID := requireAuth(t, "Bearer valid-token")

	require.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), userID)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	rec, called, _ := requireAuth(t, "")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())
}

func TestRequireAuth_UnknownToken(t *testing.T) {
	rec, called, _ := requireAuth(t, "Bearer bogus")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	rec, called, _ := requireAuth(t, "Basic dXNlcjpwYXNz")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_EmptyBearer(t *testing.T) {
	rec, called, _ := requireAuth(t, "Bearer ")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
