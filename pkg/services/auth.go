package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/jsonutil"
	"github.com/zipatlas/zipatlas-api/pkg/models"
	"github.com/zipatlas/zipatlas-api/pkg/repositories"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService issues and validates opaque bearer tokens. A login invalidates
// every previous token for that user; only the SHA-256 digest of a token is
// stored.
type AuthService interface {
	// Login verifies credentials and returns the user with a freshly minted
	// plaintext token. Unknown email and wrong password are indistinguishable
	// to the caller.
	Login(ctx context.Context, email, password jsonutil.String) (*models.User, string, error)

	// Authenticate resolves a bearer token to the owning user id, returning
	// apperrors.ErrNotFound for unknown tokens.
	Authenticate(ctx context.Context, token string) (int64, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Login(ctx context.Context, email, password jsonutil.String) (*models.User, string, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, email.Value)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password.Value)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	// One active session per user: a new login revokes all earlier tokens.
	if err := s.tokenRepo.DeleteForUser(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := generateToken()
	if err != nil {
		return nil, "", err
	}
	if err := s.tokenRepo.Insert(ctx, user.ID, hashToken(token)); err != nil {
		return nil, "", err
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (int64, error) {
	return s.tokenRepo.UserIDByHash(ctx, hashToken(token))
}

// generateToken mints a 32-byte random token, hex encoded (64 characters).
func generateToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func validateCredentials(email, password jsonutil.String) error {
	v := apperrors.NewValidationErrors()

	switch {
	case !email.Set || (email.Valid && email.Value == ""):
		v.Add("email", "The email field is required.")
	case !email.Valid, !emailPattern.MatchString(email.Value):
		v.Add("email", "The email must be a valid email address.")
	}

	switch {
	case !password.Set || (password.Valid && password.Value == ""):
		v.Add("password", "The password field is required.")
	case !password.Valid:
		v.Add("password", "The password must be a string.")
	case utf8.RuneCountInString(password.Value) < 6:
		v.Add("password", "The password must be at least 6 characters.")
	}

	return v.ErrOrNil()
}
