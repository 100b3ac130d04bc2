package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashdeck/flashdeck/internal/models"
)

// TokenRepository defines the interface for access token data operations.
// Tokens are write-once: there is no update or revocation path, expiry is
// checked by the caller at lookup time.
type TokenRepository interface {
	Create(ctx context.Context, token *models.AccessToken) error
	Get(ctx context.Context, token string) (*models.AccessToken, error)
}

type tokenRepo struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new access token repository.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepo{pool: pool}
}

// Create inserts a new access token.
func (r *tokenRepo) Create(ctx context.Context, token *models.AccessToken) error {
	query := `
		INSERT INTO access_tokens (token, user_id, expiration)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, token.Token, token.UserID, token.Expiration)
	return err
}

// Get retrieves an access token by its opaque value.
func (r *tokenRepo) Get(ctx context.Context, token string) (*models.AccessToken, error) {
	query := `
		SELECT token, user_id, expiration
		FROM access_tokens WHERE token = $1`

	var t models.AccessToken
	err := r.pool.QueryRow(ctx, query, token).Scan(&t.Token, &t.UserID, &t.Expiration)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Compile-time check to ensure tokenRepo implements TokenRepository.
var _ TokenRepository = (*tokenRepo)(nil)
