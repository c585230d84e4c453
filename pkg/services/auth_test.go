package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/models"
)

type mockUserRepo struct {
	user *models.User
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.user != nil && m.user.Email == email {
		return m.user, nil
	}
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	return &models.User{ID: 1, Name: name, Email: email, Password: passwordHash}, nil
}

type mockTokenRepo struct {
	hashes      map[string]int64
	deletedUser int64
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{hashes: map[string]int64{}}
}

func (m *mockTokenRepo) DeleteForUser(ctx context.Context, userID int64) error {
	m.deletedUser = userID
	for h, uid := range m.hashes {
		if uid == userID {
			delete(m.hashes, h)
		}
	}
	return nil
}
func (m *mockTokenRepo) Insert(ctx context.Context, userID int64, tokenHash string) error {
	m.hashes[tokenHash] = userID
	return nil
}
func (m *mockTokenRepo) UserIDByHash(ctx context.Context, tokenHash string) (int64, error) {
	userID, ok := m.hashes[tokenHash]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return userID, nil
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{ID: 42, Name: "API User", Email: "api@example.com", Password: string(hash)}
}

func TestAuthService_Login_Success(t *testing.T) {
	tokens := newMockTokenRepo()
	svc := NewAuthService(&mockUserRepo{user: testUser(t, "secret-pass")}, tokens, zap.NewNop())

	user, token, err := svc.Login(context.Background(), str("api@example.com"), str("secret-pass"))

	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Len(t, token, 64)

	// The plaintext token is never stored, only its digest.
	_, stored := tokens.hashes[token]
	assert.False(t, stored)
	assert.Len(t, tokens.hashes, 1)
}

func TestAuthService_Login_RevokesPreviousTokens(t *testing.T) {
	tokens := newMockTokenRepo()
	svc := NewAuthService(&mockUserRepo{user: testUser(t, "secret-pass")}, tokens, zap.NewNop())

	_, first, err := svc.Login(context.Background(), str("api@example.com"), str("secret-pass"))
	require.NoError(t, err)
	_, second, err := svc.Login(context.Background(), str("api@example.com"), str("secret-pass"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, tokens.hashes, 1)

	_, err = svc.Authenticate(context.Background(), first)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	userID, err := svc.Authenticate(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newMockTokenRepo(), zap.NewNop())

	_, _, err := svc.Login(context.Background(), str("nobody@example.com"), str("secret-pass"))

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{user: testUser(t, "secret-pass")}, newMockTokenRepo(), zap.NewNop())

	_, _, err := svc.Login(context.Background(), str("api@example.com"), str("wrong-pass"))

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newMockTokenRepo(), zap.NewNop())

	tests := []struct {
		name     string
		email    string
		password string
		field    string
		message  string
	}{
		{"missing email", "", "secret-pass", "email", "The email field is required."},
		{"malformed email", "not-an-email", "secret-pass", "email", "The email must be a valid email address."},
		{"missing password", "api@example.com", "", "password", "The password field is required."},
		{"short password", "api@example.com", "short", "password", "The password must be at least 6 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), str(tt.email), str(tt.password))

			var v *apperrors.ValidationErrors
			require.ErrorAs(t, err, &v)
			assert.Equal(t, []string{tt.message}, v.Messages(tt.field))
		})
	}
}

func TestAuthService_Authenticate_UnknownToken(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newMockTokenRepo(), zap.NewNop())

	_, err := svc.Authenticate(context.Background(), "deadbeef")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
