package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zipatlas/zipatlas-api/pkg/apperrors"
	"github.com/zipatlas/zipatlas-api/pkg/database"
)

// TokenRepository stores hashed access tokens. Plaintext tokens are never
// persisted; only their SHA-256 digest is.
type TokenRepository interface {
	DeleteForUser(ctx context.Context, userID int64) error
	Insert(ctx context.Context, userID int64, tokenHash string) error
	UserIDByHash(ctx context.Context, tokenHash string) (int64, error)
}

type tokenRepository struct {
	db *database.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *database.DB) TokenRepository {
	return &tokenRepository{db: db}
}

var _ TokenRepository = (*tokenRepository)(nil)

func (r *tokenRepository) DeleteForUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM access_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

func (r *tokenRepository) Insert(ctx context.Context, userID int64, tokenHash string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO access_tokens (user_id, token_hash) VALUES ($1, $2)`,
		userID, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (r *tokenRepository) UserIDByHash(ctx context.Context, tokenHash string) (int64, error) {
	var userID int64
	err := r.db.QueryRow(ctx,
		`SELECT user_id FROM access_tokens WHERE token_hash = $1`, tokenHash).
		Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}
	return userID, nil
}
